package humanoid

import "testing"

func TestMapAliases(t *testing.T) {
	for _, x := range [...]struct {
		name string
		want Bone
	}{
		{"Hips", Hips},
		{"LeftUpperLeg", LeftUpperLeg},
		{"LeftUpLeg", LeftUpperLeg},
		{"RightUpLeg", RightUpperLeg},
		{"LeftLeg", LeftLowerLeg},
		{"RightForeArm", RightLowerArm},
		{"LeftArm", LeftUpperArm},
		{"LeftToeBase", LeftFoot},
		{"RightToeBase_end", RightToes},
		{"UpperChest", UpperChest},
		{"Jaw", Jaw},
		{"LeftHandIndex1", LeftIndexProximal},
		{"LeftHandIndex3", LeftIndexDistal},
		{"RightHandPinky2", RightLittleIntermediate},
		{"RightHandLittle2", RightLittleIntermediate},
		{"RightLittleIntermediate", RightLittleIntermediate},
		{"LeftHandThumb1", LeftThumbProximal},
	} {
		b, ok := Map(x.name)
		if !ok || b != x.want {
			t.Fatalf("Map(%q):\nhave %v, %t\nwant %v, true", x.name, b, ok, x.want)
		}
	}
}

func TestMapUnknown(t *testing.T) {
	for _, name := range [...]string{"", "hips", "HIPS", "LeftUpLeg ", "Tail", "J_Bip_C_Hips", "leftUpperLeg"} {
		if b, ok := Map(name); ok || b != BoneNone {
			t.Fatalf("Map(%q):\nhave %v, %t\nwant none, false", name, b, ok)
		}
	}
}

func TestMapCoversAllBones(t *testing.T) {
	for _, b := range All() {
		name := b.String()
		pascal := string(name[0]-'a'+'A') + name[1:]
		if have, ok := Map(pascal); !ok || have != b {
			t.Fatalf("Map(%q):\nhave %v, %t\nwant %v, true", pascal, have, ok, b)
		}
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != int(boneCount)-1 {
		t.Fatalf("len(All()):\nhave %d\nwant %d", len(all), boneCount-1)
	}
	seen := make(map[Bone]bool)
	for _, b := range all {
		if !b.Valid() || seen[b] {
			t.Fatalf("All(): bad or duplicate bone %d", b)
		}
		seen[b] = true
	}
	if BoneNone.Valid() || BoneNone.String() != "none" {
		t.Fatal("BoneNone: must be invalid and print as none")
	}
}

func TestParseVRM(t *testing.T) {
	if b, ok := ParseVRM0("leftThumbProximal"); !ok || b != LeftThumbProximal {
		t.Fatalf("ParseVRM0:\nhave %v, %t\nwant %v, true", b, ok, LeftThumbProximal)
	}
	for _, x := range [...]struct {
		name string
		want Bone
	}{
		{"hips", Hips},
		{"leftThumbMetacarpal", LeftThumbProximal},
		{"leftThumbProximal", LeftThumbIntermediate},
		{"rightThumbDistal", RightThumbDistal},
		{"rightLittleDistal", RightLittleDistal},
	} {
		if b, ok := ParseVRM1(x.name); !ok || b != x.want {
			t.Fatalf("ParseVRM1(%q):\nhave %v, %t\nwant %v, true", x.name, b, ok, x.want)
		}
	}
	if _, ok := ParseVRM1("leftThumbIntermediate"); ok {
		t.Fatal("ParseVRM1(leftThumbIntermediate): not a 1.0 key")
	}
	if _, ok := ParseVRM0("Hips"); ok {
		t.Fatal("ParseVRM0(Hips): keys are camelCase")
	}
}

// Command vrmainfo prints the structure of glTF, VRM, and VRMA files.
//
// Each file is decoded twice: with github.com/qmuntal/gltf for the raw document layout, and
// with the engine loader for the humanoid rig and the imported clip, so the two views can be
// compared when a file does not animate as expected.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-vrma/engine/loader"

	"github.com/qmuntal/gltf"
)

func main() {
	tracks := flag.Bool("tracks", false, "list every imported track")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: vrmainfo [-tracks] file...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		if err := dump(os.Stdout, path, *tracks); err != nil {
			fmt.Fprintf(os.Stderr, "vrmainfo: %s: %v\n", path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// dump writes the report for one file.
func dump(w io.Writer, path string, listTracks bool) error {
	doc, err := gltf.Open(path)
	if err != nil {
		return fmt.Errorf("gltf: %w", err)
	}

	fmt.Fprintf(w, "== %s\n", path)
	fmt.Fprintf(w, "scenes: %d  nodes: %d  meshes: %d  skins: %d  animations: %d  buffers: %d\n",
		len(doc.Scenes), len(doc.Nodes), len(doc.Meshes), len(doc.Skins), len(doc.Animations), len(doc.Buffers))

	exts := make([]string, 0, len(doc.Extensions))
	for name := range doc.Extensions {
		exts = append(exts, name)
	}
	sort.Strings(exts)
	if len(exts) > 0 {
		fmt.Fprintf(w, "extensions: %s\n", strings.Join(exts, ", "))
	}

	for i, s := range doc.Scenes {
		fmt.Fprintf(w, "scene %d %q: %d root nodes\n", i, s.Name, len(s.Nodes))
	}
	for i, sk := range doc.Skins {
		fmt.Fprintf(w, "skin %d %q: %d joints\n", i, sk.Name, len(sk.Joints))
	}
	for i, a := range doc.Animations {
		var targets []string
		for _, ch := range a.Channels {
			if ch.Target.Node == nil {
				continue
			}
			if name := doc.Nodes[*ch.Target.Node].Name; !slices.Contains(targets, name) {
				targets = append(targets, name)
			}
		}
		fmt.Fprintf(w, "animation %d %q: %d channels over %d nodes\n", i, a.Name, len(a.Channels), len(targets))
	}

	return dumpEngineView(w, path, listTracks)
}

// dumpEngineView reports what the engine loader makes of the file.
func dumpEngineView(w io.Writer, path string, listTracks bool) error {
	doc, err := loader.DecodeFile(path)
	if err != nil {
		return fmt.Errorf("loader: %w", err)
	}

	if rig, err := loader.ExtractRig(doc); err == nil {
		fmt.Fprintf(w, "humanoid: %d bones\n", len(rig.Joints()))
		for _, j := range rig.Joints() {
			parent := "-"
			if j.Parent >= 0 {
				parent = doc.NodeName(j.Parent)
			}
			fmt.Fprintf(w, "  %-24s node %-4d %-28q parent %s\n", j.Bone, j.Node, j.Name, parent)
		}
	} else if !errors.Is(err, loader.ErrNoHumanoid) {
		return err
	}

	if doc.AnimationCount() == 0 {
		return nil
	}
	clip, err := loader.ImportClip(doc)
	if err != nil {
		fmt.Fprintf(w, "clip: import failed: %v\n", err)
		return nil
	}
	fmt.Fprintf(w, "clip %q: %.3fs, %d tracks, %d bones\n", clip.Name, clip.Duration, len(clip.Tracks), len(clip.Bones()))
	if listTracks {
		for _, t := range clip.Tracks {
			fmt.Fprintf(w, "  %-24s %-11s %-11s %d keys, last %.3fs\n", t.Bone, t.Property, t.Interpolation, t.Len(), t.LastTime())
		}
	}
	return nil
}

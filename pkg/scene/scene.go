// Package scene stores a landscape as a glTF document: the camera start
// pose as a node, flag and ball markers as nodes, and the texture and
// heightmap as images.
package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/voxelscape/pkg/assets"
	"github.com/taigrr/voxelscape/pkg/camera"
	"github.com/taigrr/voxelscape/pkg/math3d"
	"github.com/taigrr/voxelscape/pkg/render"
)

// Node and image names recognized in a scene document.
const (
	CameraNode     = "camera"
	FlagNode       = "flag"
	BallNode       = "ball"
	TextureImage   = "texture"
	HeightMapImage = "heightmap"
)

// ErrMissingImage is returned when a document lacks the texture or heightmap.
var ErrMissingImage = errors.New("scene: missing terrain image")

// Scene is everything needed to start rendering a landscape.
type Scene struct {
	Camera    camera.Extrinsics
	Markers   []render.Marker
	Texture   *render.Image
	HeightMap *render.Image
}

// cameraExtras carries the orientation of the camera node.
type cameraExtras struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// New builds a scene over the given terrain with the camera hovering above
// its center and a flag planted ahead of it.
func New(texture, heightMap *render.Image) *Scene {
	cx := 0.5 * float64(texture.Width)
	cz := 0.5 * float64(texture.Height)
	ground := render.SampleHeightMap(heightMap, cx, cz)

	fz := cz - 0.25*float64(texture.Height)
	return &Scene{
		Camera:    camera.Extrinsics{X: cx, Y: ground + 10, Z: cz},
		Texture:   texture,
		HeightMap: heightMap,
		Markers: []render.Marker{{
			Kind:     render.MarkerFlag,
			Position: math3d.V3(cx, render.SampleHeightMap(heightMap, cx, fz), fz),
		}},
	}
}

// Frame returns the renderable part of the scene. The marker slice is
// shared with s.
func (s *Scene) Frame() *render.Scene {
	return &render.Scene{
		Texture:   s.Texture,
		HeightMap: s.HeightMap,
		Markers:   s.Markers,
	}
}

// Load reads a .gltf or .glb scene. Images may be embedded in a buffer view
// or referenced by a URI relative to the document.
func Load(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	s := &Scene{}
	for _, n := range doc.Nodes {
		pos := math3d.V3(n.Translation[0], n.Translation[1], n.Translation[2])
		name := strings.ToLower(n.Name)
		switch {
		case name == CameraNode:
			var ex cameraExtras
			if n.Extras != nil {
				if err := decodeExtras(n.Extras, &ex); err != nil {
					return nil, fmt.Errorf("camera node extras: %w", err)
				}
			}
			s.Camera = camera.Extrinsics{X: pos.X, Y: pos.Y, Z: pos.Z, Yaw: ex.Yaw, Pitch: ex.Pitch}
		case strings.HasPrefix(name, FlagNode):
			s.Markers = append(s.Markers, render.Marker{Kind: render.MarkerFlag, Position: pos})
		case strings.HasPrefix(name, BallNode):
			s.Markers = append(s.Markers, render.Marker{Kind: render.MarkerBall, Position: pos})
		}
	}

	dir := filepath.Dir(path)
	for _, img := range doc.Images {
		var target **render.Image
		switch strings.ToLower(img.Name) {
		case TextureImage:
			target = &s.Texture
		case HeightMapImage:
			target = &s.HeightMap
		default:
			continue
		}
		decoded, err := loadImage(doc, img, dir)
		if err != nil {
			return nil, fmt.Errorf("image %q: %w", img.Name, err)
		}
		*target = decoded
	}

	if s.Texture == nil || s.HeightMap == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingImage)
	}
	if !s.Texture.SameSize(s.HeightMap) {
		return nil, fmt.Errorf("texture is %dx%d but heightmap is %dx%d: %w",
			s.Texture.Width, s.Texture.Height, s.HeightMap.Width, s.HeightMap.Height, render.ErrDimensionMismatch)
	}
	return s, nil
}

func loadImage(doc *gltf.Document, img *gltf.Image, dir string) (*render.Image, error) {
	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		start := bv.ByteOffset
		end := start + bv.ByteLength
		if buf.Data == nil || end > len(buf.Data) {
			return nil, fmt.Errorf("buffer view %d out of range", *img.BufferView)
		}
		return assets.Decode(bytes.NewReader(buf.Data[start:end]), "embedded"+mimeExt(img.MimeType))
	}
	if img.URI == "" {
		return nil, errors.New("image has neither a buffer view nor a URI")
	}
	return assets.Load(filepath.Join(dir, filepath.FromSlash(img.URI)))
}

func mimeExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/x-portable-pixmap":
		return ".ppm"
	default:
		return ".png"
	}
}

// decodeExtras converts a node's extras, whatever form the JSON decoder left
// them in, into v.
func decodeExtras(extras any, v any) error {
	raw, err := json.Marshal(extras)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// Save writes the scene. A .glb file embeds both images as PNG; a .gltf
// file references PNG files written next to it.
func Save(path string, s *Scene) error {
	if s.Texture == nil || s.HeightMap == nil {
		return ErrMissingImage
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "voxelscape"

	addNode := func(n *gltf.Node) {
		doc.Nodes = append(doc.Nodes, n)
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	addNode(&gltf.Node{
		Name:        CameraNode,
		Translation: [3]float64{s.Camera.X, s.Camera.Y, s.Camera.Z},
		Extras:      cameraExtras{Yaw: s.Camera.Yaw, Pitch: s.Camera.Pitch},
	})
	counts := map[render.MarkerKind]int{}
	for _, m := range s.Markers {
		counts[m.Kind]++
		addNode(&gltf.Node{
			Name:        fmt.Sprintf("%s%d", m.Kind, counts[m.Kind]),
			Translation: [3]float64{m.Position.X, m.Position.Y, m.Position.Z},
		})
	}

	binary := strings.EqualFold(filepath.Ext(path), ".glb")
	images := []struct {
		name string
		img  *render.Image
	}{
		{TextureImage, s.Texture},
		{HeightMapImage, s.HeightMap},
	}
	for _, im := range images {
		if binary {
			var buf bytes.Buffer
			if err := assets.Encode(&buf, im.name+".png", im.img); err != nil {
				return fmt.Errorf("encode %s: %w", im.name, err)
			}
			if _, err := modeler.WriteImage(doc, im.name, "image/png", &buf); err != nil {
				return fmt.Errorf("embed %s: %w", im.name, err)
			}
			continue
		}

		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		file := base + "." + im.name + ".png"
		if err := assets.Save(filepath.Join(filepath.Dir(path), file), im.img); err != nil {
			return fmt.Errorf("write %s: %w", im.name, err)
		}
		doc.Images = append(doc.Images, &gltf.Image{Name: im.name, URI: file})
	}

	if binary {
		if err := gltf.SaveBinary(doc, path); err != nil {
			return fmt.Errorf("save glb: %w", err)
		}
		return nil
	}
	if err := gltf.Save(doc, path); err != nil {
		return fmt.Errorf("save gltf: %w", err)
	}
	return nil
}

// Exists reports whether path names a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

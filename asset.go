package colorize

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/esimov/colorize/utils"
)

// DefaultAssetNames is the image set shipped with the application.
var DefaultAssetNames = []string{
	"unicorn4.jpg",
	"unicorn_and_rainbow.webp",
	"eckersley_unicorn.jpg",
	"kawaii-art-cute-unicorn-sq-tatyana-deniz.jpg",
}

// Asset references a static image file.
type Asset struct {
	Name string
	Path string
}

// AssetSet is a fixed list of image file names resolved against a root directory.
type AssetSet struct {
	Root  string
	Names []string
}

// NewAssetSet returns the asset set found under root.
// When no names are given DefaultAssetNames is used.
func NewAssetSet(root string, names ...string) *AssetSet {
	if len(names) == 0 {
		names = DefaultAssetNames
	}
	return &AssetSet{
		Root:  root,
		Names: append([]string(nil), names...),
	}
}

// Len returns the number of assets in the set.
func (s *AssetSet) Len() int {
	return len(s.Names)
}

// Asset resolves the file name against the root directory.
func (s *AssetSet) Asset(name string) Asset {
	return Asset{
		Name: name,
		Path: filepath.Join(s.Root, name),
	}
}

// Pick chooses an asset uniformly at random. The set must not be empty.
func (s *AssetSet) Pick(rnd *rand.Rand) Asset {
	return s.Asset(s.Names[rnd.Intn(len(s.Names))])
}

// validExtensions lists the file extensions accepted by ScanAssets.
var validExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}

// ScanAssets walks the root directory recursively and returns the path of
// every supported image file relative to root, in lexical order.
func ScanAssets(root string) ([]string, error) {
	var names []string

	err := filepath.Walk(root, func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !f.Mode().IsRegular() {
			return nil
		}
		if !utils.Contains(validExtensions, strings.ToLower(filepath.Ext(f.Name()))) {
			return nil
		}
		name, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

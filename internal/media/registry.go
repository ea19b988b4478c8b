package media

import (
	_ "embed"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed openers.toml
var openersTOML []byte

// Kind is what a URL points at, as far as choosing a program goes.
type Kind int

const (
	KindPage Kind = iota
	KindImage
)

func (k Kind) String() string {
	if k == KindImage {
		return "image"
	}
	return "page"
}

type Platform struct {
	DefaultOpener string   `toml:"default_opener"`
	ImageViewers  []string `toml:"image_viewers"`
}

type Viewer struct {
	Args []string `toml:"args"`
}

type Images struct {
	Extensions []string `toml:"extensions"`
	Hosts      []string `toml:"hosts"`
}

// Registry is the parsed opener table.
type Registry struct {
	Platforms map[string]Platform `toml:"platforms"`
	Viewers   map[string]Viewer   `toml:"viewers"`
	Images    Images              `toml:"images"`
}

// LoadRegistry parses the built-in table and layers any overrides on top.
// Overrides replace whole platform and viewer entries.
func LoadRegistry(overrides ...[]byte) (*Registry, error) {
	var reg Registry
	if err := toml.Unmarshal(openersTOML, &reg); err != nil {
		return nil, fmt.Errorf("parsing openers.toml: %w", err)
	}

	for i, data := range overrides {
		var extra Registry
		if err := toml.Unmarshal(data, &extra); err != nil {
			return nil, fmt.Errorf("parsing opener override %d: %w", i+1, err)
		}
		for name, p := range extra.Platforms {
			reg.Platforms[name] = p
		}
		if reg.Viewers == nil {
			reg.Viewers = map[string]Viewer{}
		}
		for name, v := range extra.Viewers {
			reg.Viewers[name] = v
		}
		reg.Images.Extensions = append(reg.Images.Extensions, extra.Images.Extensions...)
		reg.Images.Hosts = append(reg.Images.Hosts, extra.Images.Hosts...)
	}
	return &reg, nil
}

// Detect classifies a URL by extension, then by known image hosts.
func (r *Registry) Detect(raw string) Kind {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return KindPage
	}

	ext := strings.ToLower(path.Ext(u.Path))
	for _, e := range r.Images.Extensions {
		if ext == e {
			return KindImage
		}
	}

	host := strings.ToLower(u.Hostname())
	for _, h := range r.Images.Hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return KindImage
		}
	}
	return KindPage
}

// Args returns the extra arguments a viewer wants before the URL.
func (r *Registry) Args(program string) []string {
	return append([]string(nil), r.Viewers[program].Args...)
}

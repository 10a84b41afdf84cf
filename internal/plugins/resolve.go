package plugins

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ResolvedManifest is the display form of a manifest handed to callers.
type ResolvedManifest struct {
	Name   string  `json:"name"`
	Author string  `json:"author"`
	Icon   *string `json:"icon"`
}

// ResolveManifest inlines the plugin icon as a data URI. Icon problems are
// logged and leave Icon nil.
func (p *Plugin) ResolveManifest() ResolvedManifest {
	resolved := ResolvedManifest{Name: p.Manifest.Name, Author: p.Manifest.Author}
	if p.Manifest.Icon == "" {
		return resolved
	}

	uri, err := iconDataURI(p.Dir, p.Manifest.Icon)
	if err != nil {
		p.log.Debugf("Ignoring icon for plugin %s: %v", p.ID, err)
		return resolved
	}
	resolved.Icon = &uri
	return resolved
}

// Manifests resolves the manifest of every loaded plugin, keyed by id.
func (r *Registry) Manifests() map[string]ResolvedManifest {
	out := make(map[string]ResolvedManifest, r.Len())
	if r == nil {
		return out
	}
	for id, p := range r.Plugins {
		out[id] = p.ResolveManifest()
	}
	return out
}

func iconDataURI(dir, icon string) (string, error) {
	if !filepath.IsLocal(icon) {
		return "", fmt.Errorf("icon %q is outside the plugin directory", icon)
	}

	data, err := os.ReadFile(filepath.Join(dir, icon))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("icon %q is empty", icon)
	}

	return "data:" + iconMIME(icon, data) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// iconMIME prefers the extension, since sniffing reports SVG as XML.
func iconMIME(name string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		t, _, _ = strings.Cut(t, ";")
		return t
	}
	t, _, _ := strings.Cut(http.DetectContentType(data), ";")
	return t
}

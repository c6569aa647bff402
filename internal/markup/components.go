package markup

import (
	"strings"
	"sync"
	"unicode"
)

// LocalComponentPath is where unknown capitalized components are imported from
const LocalComponentPath = "@/components/ui/"

// ComponentInfo describes where a component tag is imported from
type ComponentInfo struct {
	Name       string `json:"name"`
	ImportPath string `json:"importPath"`
	IsLocal    bool   `json:"isLocal"`
}

// ComponentRegistry resolves component tags to their imports. It is safe
// for concurrent use.
type ComponentRegistry struct {
	mu      sync.RWMutex
	entries map[string]ComponentInfo
}

// NewComponentRegistry returns a registry preloaded with the framework
// components
func NewComponentRegistry() *ComponentRegistry {
	r := &ComponentRegistry{entries: make(map[string]ComponentInfo)}
	r.Register(ComponentInfo{Name: "Link", ImportPath: "next/link"})
	r.Register(ComponentInfo{Name: "Image", ImportPath: "next/image"})
	r.Register(ComponentInfo{Name: "Fragment", ImportPath: "react"})
	return r
}

// Register adds or replaces a component
func (r *ComponentRegistry) Register(info ComponentInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[info.Name] = info
}

// Lookup returns the component info for a tag, or nil for intrinsic HTML
// tags. Unregistered capitalized tags resolve to the local UI kit.
func (r *ComponentRegistry) Lookup(tag string) *ComponentInfo {
	if tag == "" || !unicode.IsUpper([]rune(tag)[0]) {
		return nil
	}

	r.mu.RLock()
	info, ok := r.entries[tag]
	if !ok {
		// <Tabs.Panel> is imported through Tabs
		if base, _, found := strings.Cut(tag, "."); found {
			if baseInfo, baseOK := r.entries[base]; baseOK {
				info, ok = ComponentInfo{Name: tag, ImportPath: baseInfo.ImportPath, IsLocal: baseInfo.IsLocal}, true
			}
		}
	}
	r.mu.RUnlock()

	if !ok {
		base, _, _ := strings.Cut(tag, ".")
		info = ComponentInfo{Name: tag, ImportPath: LocalComponentPath + kebabCase(base), IsLocal: true}
	}
	return &info
}

// kebabCase converts DatePicker to date-picker and UIButton to ui-button
func kebabCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('-')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

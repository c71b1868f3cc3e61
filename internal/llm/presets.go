package llm

import "sort"

// Preset is a named shortcut for a model id.
type Preset struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Notes string `json:"notes"`
}

var presets = []Preset{
	{"gemini-flash", "[满血A]gemini-3-flash-preview", "fast, high accuracy"},
	{"qwen-max", "[官逆]qwen3-max-2025-10-20", "fast, balanced"},
	{"gemini-pro", "[官逆]gemini-3-pro-preview", "medium speed, best overall"},
	{"gemini-pro-thinking", "[官逆C]gemini-3-pro-preview-thinking", "medium speed, deep reasoning"},
	{"gemini-pro-max", "[满血D]gemini-2.5-pro-maxthinking", "slow, highest accuracy"},
	{"gemini-flash-thinking", "[满血C]gemini-2.5-flash-thinking", "medium speed, balanced"},
	{"deepseek-thinking", "deepseek-v3.2-thinking", "slow, high accuracy"},
	{"deepseek", "deepseek-v3.2", "medium speed, stable"},
	{"minimax", "minimax-m2", "fast"},
	{"grok-thinking", "grok-4.1-thinking", "medium speed, strong reasoning"},
	{"grok", "grok-4", "medium speed"},
}

// DefaultPreset names the preset used when nothing else is configured.
const DefaultPreset = "gemini-pro"

// Presets returns every preset sorted by name.
func Presets() []Preset {
	out := append([]Preset(nil), presets...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ResolveModel maps a preset name to its model id. Anything that is not a
// preset name is returned unchanged and treated as a model id.
func ResolveModel(nameOrModel string) string {
	for _, p := range presets {
		if p.Name == nameOrModel {
			return p.Model
		}
	}
	return nameOrModel
}

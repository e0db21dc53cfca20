package mediaquery

// Features holds the media feature values of a simulated environment. Keys are
// feature names ("width", "prefers-color-scheme") plus "type" for the media
// type. Numeric features are stored as float64 in CSS pixels, dppx or bits.
type Features map[string]any

// DefaultFeatures describes a desktop screen with light colors and no
// accessibility preferences.
func DefaultFeatures() Features {
	return Features{
		"type":                         "screen",
		"width":                        1280.0,
		"height":                       800.0,
		"orientation":                  "landscape",
		"resolution":                   1.0,
		"color":                        8.0,
		"monochrome":                   0.0,
		"grid":                         0.0,
		"prefers-color-scheme":         "light",
		"prefers-reduced-motion":       "no-preference",
		"prefers-reduced-transparency": "no-preference",
		"prefers-reduced-data":         "no-preference",
		"prefers-contrast":             "no-preference",
		"forced-colors":                "none",
		"inverted-colors":              "none",
		"dynamic-range":                "standard",
		"hover":                        "hover",
		"any-hover":                    "hover",
		"pointer":                      "fine",
		"any-pointer":                  "fine",
		"display-mode":                 "browser",
		"scripting":                    "enabled",
		"update":                       "fast",
	}
}

// Clone returns a shallow copy of f. A nil map clones to nil.
func (f Features) Clone() Features {
	if f == nil {
		return nil
	}
	out := make(Features, len(f))
	for key, value := range f {
		out[key] = value
	}
	return out
}

// WithDefaults returns f laid over DefaultFeatures with numbers normalised to
// float64. Orientation follows width and height unless set explicitly.
func (f Features) WithDefaults() Features {
	out := DefaultFeatures()
	for key, value := range f {
		out[key] = normalizeValue(value)
	}
	if _, explicit := f["orientation"]; !explicit {
		width, _ := out["width"].(float64)
		height, _ := out["height"].(float64)
		if height >= width {
			out["orientation"] = "portrait"
		} else {
			out["orientation"] = "landscape"
		}
	}
	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	default:
		return value
	}
}

// asMap converts f to the plain map type the engines bind as "f".
func (f Features) asMap() map[string]any {
	out := make(map[string]any, len(f))
	for key, value := range f {
		out[key] = value
	}
	return out
}

// discreteFeatures maps keyword-valued features to the value that is false in
// a boolean context. An empty string means the feature is always true.
var discreteFeatures = map[string]string{
	"orientation":                  "",
	"prefers-color-scheme":         "",
	"prefers-reduced-motion":       "no-preference",
	"prefers-reduced-transparency": "no-preference",
	"prefers-reduced-data":         "no-preference",
	"prefers-contrast":             "no-preference",
	"forced-colors":                "none",
	"inverted-colors":              "none",
	"dynamic-range":                "",
	"hover":                        "none",
	"any-hover":                    "none",
	"pointer":                      "none",
	"any-pointer":                  "none",
	"display-mode":                 "",
	"scripting":                    "none",
	"update":                       "none",
}

// rangeFeatures lists numeric features accepting min-/max- prefixes.
var rangeFeatures = map[string]bool{
	"width":      true,
	"height":     true,
	"resolution": true,
	"color":      true,
	"monochrome": true,
	"grid":       true,
}

package tts

import (
	"context"
	"log/slog"
	"sort"
)

// Catalog is the normalized voice listing offered to callers: display names
// deduplicated and sorted ascending, with the backend ids kept aside for
// synthesis.
type Catalog struct {
	Names []string
	// Guessed marks a catalog invented after a failed listing call: the
	// single default name, not anything the backend reported.
	Guessed bool

	ids map[string]string // display name -> backend voice id
}

func newCatalog(voices []Voice) Catalog {
	ids := make(map[string]string, len(voices))
	for _, v := range voices {
		if _, seen := ids[v.Name]; !seen {
			ids[v.Name] = v.ID
		}
	}
	names := make([]string, 0, len(ids))
	for name := range ids {
		names = append(names, name)
	}
	sort.Strings(names)
	return Catalog{Names: names, ids: ids}
}

// Empty reports the no-voice-available state: a listing that succeeded but
// offered nothing usable. Selection falls back rather than guessing a name.
func (c Catalog) Empty() bool { return len(c.Names) == 0 }

// VoiceID maps a display name to its backend id. Unknown names pass through
// untouched so a caller-supplied raw id still works.
func (c Catalog) VoiceID(name string) string {
	if id, ok := c.ids[name]; ok && id != "" {
		return id
	}
	return name
}

// ResolveVoices fetches a fresh catalog from the primary backend. A failed
// listing call yields the single hardcoded default name so callers still
// have a choice to offer; an unconfigured primary yields an empty catalog.
func (r *Registry) ResolveVoices(ctx context.Context) Catalog {
	if r.primary == nil {
		return Catalog{}
	}

	voices, err := r.primary.ListVoices(ctx)
	if err != nil {
		slog.Warn("voice listing failed, offering default voice", "voice", r.defaultVoice, "error", err)
		return Catalog{Names: []string{r.defaultVoice}, Guessed: true}
	}

	return newCatalog(voices)
}

package commands

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/saltwater-robotics/boatcore/internal/security"
)

// dumpArgs lets the caller name the file a diagnostic dump is written
// to, under the dispatcher's configured dump directory. An empty or
// absent name falls back to defaultName.
type dumpArgs struct {
	Name string `json:"name"`
}

// dumpResult is returned in place of raw content once a dump has been
// written to disk, so telemetry's /result/{id} reply stays small.
type dumpResult struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// writeDump returns content inline when ctx has no dump directory
// configured (the default for a Dispatcher built without one), or
// validates the requested name stays within DumpDir and writes it via
// ctx.FS otherwise.
func writeDump(ctx *Context, raw json.RawMessage, defaultName, content string) (any, error) {
	if ctx.DumpDir == "" || ctx.FS == nil {
		return content, nil
	}

	name := defaultName
	if len(raw) > 0 {
		var a dumpArgs
		if err := json.Unmarshal(raw, &a); err == nil && a.Name != "" {
			name = a.Name
		}
	}

	path := filepath.Join(ctx.DumpDir, name)
	if err := security.ValidatePathWithinDirectory(path, ctx.DumpDir); err != nil {
		return nil, fmt.Errorf("commands: dump path rejected: %w", err)
	}
	if err := ctx.FS.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("commands: write dump %s: %w", path, err)
	}
	return dumpResult{Path: path, Bytes: len(content)}, nil
}

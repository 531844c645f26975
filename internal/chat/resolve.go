package chat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"llamachat/internal/common/fsutil"
	"llamachat/internal/registry"
	"llamachat/internal/session"
)

// ResolveModelPath picks the model weight file for this run. Order: the
// explicit path (flag or config file), then the first *.gguf in modelsDir,
// then an interactive prompt. The resolved path must be a regular file.
// sc must be the same scanner the console loop will read from, so type-ahead
// buffered past the model-path line is not lost.
func ResolveModelPath(explicit, modelsDir string, sc *bufio.Scanner, out io.Writer) (string, error) {
	if p := strings.TrimSpace(explicit); p != "" {
		expanded, err := fsutil.ExpandHome(p)
		if err != nil {
			return "", err
		}
		if !fsutil.IsRegularFile(expanded) {
			return "", session.ErrModelLoad("no such model file: " + expanded)
		}
		return expanded, nil
	}
	if mdl, ok := registry.DefaultModel(modelsDir); ok {
		return mdl.Path, nil
	}
	fmt.Fprint(out, "Model path: ")
	if !sc.Scan() {
		return "", session.ErrModelLoad("no model path given")
	}
	p := strings.TrimSpace(sc.Text())
	expanded, err := fsutil.ExpandHome(p)
	if err != nil {
		return "", err
	}
	if !fsutil.IsRegularFile(expanded) {
		return "", session.ErrModelLoad("no such model file: " + expanded)
	}
	return expanded, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL looks for a .watchclang.kdl file in dir and, if present, layers
// it over Default(). A missing file is not an error: callers get (nil, nil)
// and should fall back to Default() themselves.
func LoadKDL(dir string) (*Config, error) {
	path := filepath.Join(dir, ".watchclang.kdl")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := Default()
	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "concurrency":
			if s, ok := firstStringArg(n); ok && s == "auto" {
				cfg.ConcurrencyAuto = true
				continue
			}
			if v, ok := firstIntArg(n); ok {
				cfg.Concurrency = v
				cfg.ConcurrencyAuto = false
			}
		case "dedup":
			if b, ok := firstBoolArg(n); ok {
				cfg.DedupEnabled = b
			}
		case "colors":
			if b, ok := firstBoolArg(n); ok {
				cfg.ColorEnabled = b
			}
		case "graph_edge_limit":
			if v, ok := firstIntArg(n); ok {
				cfg.GraphEdgeLimit = v
			}
		case "watch_debounce_ms":
			if v, ok := firstIntArg(n); ok {
				cfg.WatchDebounceMs = v
			}
		case "isystem":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "c":
					if s, ok := firstStringArg(cn); ok {
						cfg.IsystemC = s
					}
				case "cxx", "c++":
					if s, ok := firstStringArg(cn); ok {
						cfg.IsystemCXX = s
					}
				}
			}
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

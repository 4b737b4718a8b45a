package scanner

// Directory names that are never descended into during a scan.
var defaultIgnoredDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	".hg":          true,
	".idea":        true,
	".vscode":      true,
	"node_modules": true,
	"__pycache__":  true,
	"vendor":       true,
	"bin":          true,
	"obj":          true,
	"dist":         true,
	"build":        true,
	"out":          true,
	".cache":       true,
}

func isDefaultIgnored(name string) bool {
	return defaultIgnoredDirs[name]
}

package symtab

import "strings"

// FindAllReferences finds every reference to symbolName across the
// project: within definingFile itself, and in any file that imports
// symbolName (by name or via a wildcard) from definingFile's module.
func (st *SymbolTable) FindAllReferences(symbolName, definingFile string) []FileReference {
	definingModule := ""
	if fs := st.Files[definingFile]; fs != nil {
		definingModule = fs.Module
	}

	var out []FileReference
	for path, fs := range st.Files {
		importsSymbol := false
		for _, imp := range fs.Imports {
			if !imp.IsFromImport {
				continue
			}
			if imp.Module == definingModule || strings.HasSuffix(imp.Module, "."+definingModule) {
				for _, n := range imp.Names {
					if n.Name == symbolName || n.Name == "*" {
						importsSymbol = true
						break
					}
				}
			}
		}

		if path != definingFile && !importsSymbol {
			continue
		}
		for _, ref := range fs.References {
			if ref.Name == symbolName {
				out = append(out, FileReference{File: path, Reference: ref})
			}
		}
	}
	return out
}

// ImportsWildcard reports whether an ImportRecord is a "from x import *".
func (imp ImportRecord) ImportsWildcard() bool {
	for _, n := range imp.Names {
		if n.Name == "*" {
			return true
		}
	}
	return false
}

// FileReference pairs a Reference with the file it occurs in.
type FileReference struct {
	File      string
	Reference Reference
}

// FileImport pairs an ImportRecord with the file it occurs in.
type FileImport struct {
	File   string
	Import ImportRecord
}

// FindImportingFiles finds every file that imports module, optionally
// filtered to those that bind symbolName specifically (or a wildcard).
func (st *SymbolTable) FindImportingFiles(module string, symbolName string) []FileImport {
	var out []FileImport
	for path, fs := range st.Files {
		for _, imp := range fs.Imports {
			if imp.IsFromImport {
				if imp.Module != module && !strings.HasSuffix(imp.Module, module) {
					continue
				}
				if symbolName == "" {
					out = append(out, FileImport{File: path, Import: imp})
					continue
				}
				for _, n := range imp.Names {
					if n.Name == symbolName || n.Name == "*" {
						out = append(out, FileImport{File: path, Import: imp})
						break
					}
				}
			} else {
				for _, n := range imp.Names {
					if n.Name == module {
						out = append(out, FileImport{File: path, Import: imp})
						break
					}
				}
			}
		}
	}
	return out
}

package buildutil

import (
	"github.com/bazelbuild/buildtools/build"
)

// Call returns the call expression name(args...).
func Call(name string, args ...build.Expr) *build.CallExpr {
	return &build.CallExpr{
		X:    &build.Ident{Name: name},
		List: args,
	}
}

// StringArg returns the keyword argument name = "value".
func StringArg(name, value string) *build.AssignExpr {
	return &build.AssignExpr{
		LHS: &build.Ident{Name: name},
		Op:  "=",
		RHS: &build.StringExpr{Value: value},
	}
}

// ModuleFile returns a MODULE.bazel file holding the given statements.
func ModuleFile(path string, stmts ...build.Expr) *build.File {
	return &build.File{
		Path: path,
		Type: build.TypeModule,
		Stmt: stmts,
	}
}

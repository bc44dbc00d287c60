package parse_tree

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/tmplc/pkg/ast"
	"github.com/walteh/tmplc/pkg/diagnostic"
	"github.com/walteh/tmplc/pkg/parser"
	"github.com/walteh/tmplc/pkg/syntax"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	file       string
	syntaxFile string
	format     string // text, json, vscode

	fs afero.Fs
}

func NewParseTreeCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "parse-tree [template-file]",
		Short: "parse a template file and print its syntax tree",
	}

	cmd.Flags().StringVar(&me.syntaxFile, "syntax", "", "YAML file with custom delimiters")
	cmd.Flags().StringVar(&me.format, "format", "text", "diagnostics format on failure (text, json, vscode)")
	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.file = args[0]
		return me.Run(cmd.Context(), cmd)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, cmd *cobra.Command) error {
	syn, err := me.loadSyntax()
	if err != nil {
		return err
	}

	content, err := afero.ReadFile(me.fs, me.file)
	if err != nil {
		return errors.Errorf("reading template %q: %w", me.file, err)
	}

	src := string(content)
	nodes, err := parser.Parse(ctx, src, syn)
	if err != nil {
		diags := diagnostic.FromParseError(me.file, src, err)
		out, ferr := diags.Format(me.format)
		if ferr != nil {
			return ferr
		}
		cmd.Print(out)
		return errors.Errorf("template %q has errors", me.file)
	}

	zerolog.Ctx(ctx).Debug().Str("file", me.file).Int("nodes", len(nodes)).Msg("template parsed")

	cmd.Print(ast.Dump(nodes))
	return nil
}

func (me *Handler) loadSyntax() (*syntax.Syntax, error) {
	if me.syntaxFile == "" {
		return syntax.Default(), nil
	}
	return syntax.Load(me.fs, me.syntaxFile)
}

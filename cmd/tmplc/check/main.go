package check

import (
	"context"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/tmplc/pkg/diagnostic"
	"github.com/walteh/tmplc/pkg/parser"
	"github.com/walteh/tmplc/pkg/syntax"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	patterns   []string
	syntaxFile string
	format     string // text, json, vscode

	fs afero.Fs
}

func NewCheckCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "check [glob...]",
		Short: "parse template files and report diagnostics",
		Long:  "check resolves each argument as a doublestar glob (e.g. 'templates/**/*.html'), parses every match, and reports diagnostics for the ones that fail.",
	}

	cmd.Flags().StringVar(&me.syntaxFile, "syntax", "", "YAML file with custom delimiters")
	cmd.Flags().StringVar(&me.format, "format", "text", "diagnostics format (text, json, vscode)")
	cmd.Args = cobra.MinimumNArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.patterns = args
		return me.Run(cmd.Context(), cmd)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, cmd *cobra.Command) error {
	syn, err := me.loadSyntax()
	if err != nil {
		return err
	}

	files, err := me.resolve()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.Errorf("no template files match %v", me.patterns)
	}

	log := zerolog.Ctx(ctx)

	var result *multierror.Error
	failed := 0
	for _, file := range files {
		content, err := afero.ReadFile(me.fs, file)
		if err != nil {
			result = multierror.Append(result, errors.Errorf("reading %q: %w", file, err))
			failed++
			continue
		}

		src := string(content)
		if _, err := parser.Parse(ctx, src, syn); err != nil {
			diags := diagnostic.FromParseError(file, src, err)
			out, ferr := diags.Format(me.format)
			if ferr != nil {
				return ferr
			}
			cmd.Print(out)
			result = multierror.Append(result, errors.Errorf("template %q has errors", file))
			failed++
			continue
		}

		log.Debug().Str("file", file).Msg("template ok")
	}

	log.Info().Int("files", len(files)).Int("failed", failed).Msg("check finished")

	return result.ErrorOrNil()
}

// resolve expands every glob pattern against the filesystem and returns the
// sorted, deduplicated file list.
func (me *Handler) resolve() ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, pattern := range me.patterns {
		matches, err := doublestar.Glob(afero.NewIOFS(me.fs), pattern)
		if err != nil {
			return nil, errors.Errorf("bad glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func (me *Handler) loadSyntax() (*syntax.Syntax, error) {
	if me.syntaxFile == "" {
		return syntax.Default(), nil
	}
	return syntax.Load(me.fs, me.syntaxFile)
}

// Package cli implements the derive-generator command line: gen, check and
// inspect over Go packages or YAML declaration files.
package cli

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"derive-generator/internal/analyze"
	"derive-generator/internal/config"
	"derive-generator/internal/decl"
	"derive-generator/internal/gen"
	"derive-generator/internal/logger"
)

// app is the state shared by the commands of one invocation.
type app struct {
	v          *viper.Viper
	cfg        *config.Config
	configPath string
}

// NewRootCmd builds the derive-generator command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "derive-generator",
		Short: "Generate Default and operator implementations from derive directives",
		Long: `derive-generator reads //derive: directives on Go types and writes
Default, Add, Sub, BitAnd, BitOr and BitXor implementations next to them.

Examples:
  derive-generator gen ./...                        # Generate for every package
  derive-generator gen --decls types.yaml --out x.go # Generate from a declaration file
  derive-generator check ./...                      # Fail when generated files are stale
  derive-generator inspect ./geometry               # Dump declarations and descriptors`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Root().PersistentFlags())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Cleanup()
		},
	}

	flags := root.PersistentFlags()
	flags.CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	flags.Bool("json-logs", false, "Write logs as JSON")
	flags.StringVar(&a.configPath, "config", "", "Configuration file (default: "+config.FileName+" in the module)")
	flags.String("output", config.DefaultOutput, "Generated file name in each package")
	flags.String("runtime-import", "", "Import path of the deriving runtime package")
	flags.Bool("fix-imports", true, "Format with goimports instead of pruning unused imports")
	flags.Bool("strict", false, "Treat unknown annotation keys as errors")

	root.AddCommand(genCmd(a), checkCmd(a), inspectCmd(a))

	return root
}

// Execute runs the command line with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// flagKeys maps configuration keys to the persistent flags that set them.
var flagKeys = map[string]string{
	config.KeyVerbose:           "verbose",
	config.KeyJSONLogs:          "json-logs",
	config.KeyOutput:            "output",
	config.KeyRuntimeImport:     "runtime-import",
	config.KeyFixImports:        "fix-imports",
	config.KeyStrictAnnotations: "strict",
}

func (a *app) setup(flags *pflag.FlagSet) error {
	if err := bindFlags(a.v, flags); err != nil {
		return err
	}

	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}

	if err := logger.Initialize(cfg.Verbose, cfg.JSONLogs); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	a.cfg = cfg

	logger.Logger.Debugw("configuration loaded",
		"output", cfg.Output,
		"runtime_import", cfg.RuntimeImport,
		"fix_imports", cfg.FixImports,
		"strict", cfg.StrictAnnotations)

	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return errors.Wrapf(err, "binding --%s", name)
		}
	}

	return nil
}

// source selects where declarations come from: package patterns, or a YAML
// declaration file when decls is set.
type source struct {
	decls string
	out   string
}

func (s *source) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.decls, "decls", "", "YAML declaration file to read instead of Go packages")
	cmd.Flags().StringVar(&s.out, "out", "", "Output file for --decls (default: the output name next to the file)")
}

// units loads the generation units for patterns or the declaration file.
func (a *app) units(ctx context.Context, s source, patterns []string) ([]gen.Unit, error) {
	if s.decls != "" {
		if len(patterns) > 0 {
			return nil, errors.New("package patterns cannot be combined with --decls")
		}

		f, err := decl.LoadFile(s.decls)
		if err != nil {
			return nil, err
		}

		out := s.out
		if out == "" {
			out = filepath.Join(filepath.Dir(s.decls), a.cfg.Output)
		}

		return []gen.Unit{gen.UnitFromFile(f, out)}, nil
	}

	if s.out != "" {
		return nil, errors.WithHint(errors.New("--out requires --decls"),
			"use --output to rename the generated file in every package")
	}

	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	az := &analyze.Analyzer{Output: a.cfg.Output}

	pkgs, err := az.LoadPackages(ctx, patterns...)
	if err != nil {
		return nil, err
	}

	units := make([]gen.Unit, 0, len(pkgs))
	for _, p := range pkgs {
		units = append(units, gen.UnitFromPackage(p))
	}

	return units, nil
}

func (a *app) generator() *gen.Generator {
	return gen.NewGenerator(gen.GeneratorConfig{
		Filename:   a.cfg.Output,
		FixImports: a.cfg.FixImports,
		Options:    a.cfg.DeriveOptions(),
	})
}

// FILE: lixenwraith/setting/cmd/setting/commands.go
package main

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/setting"
	"github.com/lixenwraith/setting/lookup"
	"github.com/lixenwraith/setting/store"
)

// typeNames maps --type values to resolution targets
var typeNames = map[string]reflect.Type{
	"string":   reflect.TypeOf((*string)(nil)).Elem(),
	"int":      reflect.TypeOf((*int)(nil)).Elem(),
	"int64":    reflect.TypeOf((*int64)(nil)).Elem(),
	"uint":     reflect.TypeOf((*uint)(nil)).Elem(),
	"float64":  reflect.TypeOf((*float64)(nil)).Elem(),
	"bool":     reflect.TypeOf((*bool)(nil)).Elem(),
	"duration": reflect.TypeOf((*time.Duration)(nil)).Elem(),
	"uuid":     reflect.TypeOf((*uuid.UUID)(nil)).Elem(),
	"url":      reflect.TypeOf((**url.URL)(nil)).Elem(),
}

// sourceFlags are shared by every command that reads settings
type sourceFlags struct {
	file       string
	envPrefix  string
	consulRoot string
	verbose    bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "settings file (TOML, JSON or YAML)")
	cmd.Flags().StringVarP(&f.envPrefix, "env-prefix", "e", "", "environment variable prefix, e.g. APP_")
	cmd.Flags().StringVar(&f.consulRoot, "consul", "", "consul KV root consulted before the file")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log resolution details")
}

func (f *sourceFlags) logger() *logrus.Logger {
	l := logrus.New()
	if f.verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// openStore loads the settings file, if any, into a store.
func (f *sourceFlags) openStore() (*store.Store, error) {
	s, err := store.NewBuilder().
		WithFile(f.file).
		WithArgs(nil).
		Build()
	if err != nil {
		if errors.Is(err, store.ErrConfigNotFound) {
			return nil, fmt.Errorf("%s: %w", f.file, err)
		}
		return nil, err
	}
	return s, nil
}

// lookup builds the chain env > consul > file. Missing layers are skipped.
func (f *sourceFlags) lookup(s *store.Store) (lookup.Chain, error) {
	var chain lookup.Chain
	if f.envPrefix != "" {
		chain = append(chain, lookup.NewEnv(f.envPrefix))
	}
	if f.consulRoot != "" {
		c, err := lookup.NewConsul(f.consulRoot, nil)
		if err != nil {
			return nil, err
		}
		chain = append(chain, c)
	}
	return append(chain, s), nil
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "setting",
		Short:         "Resolve typed settings from files, environment and consul",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newGetCommand(),
		newListCommand(),
	)

	return rootCmd
}

func newGetCommand() *cobra.Command {
	var (
		flags    sourceFlags
		typeName string
		tolerant bool
	)

	cmd := &cobra.Command{
		Use:   "get GROUP NAME",
		Short: "Resolve one setting and print its value",
		Long: `Resolve GROUP.NAME and print it converted to --type.
Use an empty GROUP ("") for top-level names.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, ok := typeNames[strings.ToLower(typeName)]
			if !ok {
				return fmt.Errorf("unknown type %q (supported: %s)", typeName, supportedTypes())
			}

			s, err := flags.openStore()
			if err != nil {
				return err
			}
			chain, err := flags.lookup(s)
			if err != nil {
				return err
			}

			b := setting.NewBuilder().
				WithLookup(chain).
				WithLogger(flags.logger())
			if tolerant {
				b = b.WithTolerant()
			}
			r, err := b.Build()
			if err != nil {
				return err
			}

			v, err := r.GetSetting(args[0], args[1], target)
			if err != nil {
				return err
			}
			if v == nil {
				return fmt.Errorf("setting %q not found", setting.JoinName(args[0], args[1]))
			}

			fmt.Fprintln(cmd.OutOrStdout(), format(v))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&typeName, "type", "t", "string", "target type: "+supportedTypes())
	cmd.Flags().BoolVar(&tolerant, "tolerant", false, "print the type's default instead of failing on bad values")
	return cmd
}

func newListCommand() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "list [PREFIX]",
		Short: "List the setting names found in the settings file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.openStore()
			if err != nil {
				return err
			}
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			for _, path := range s.Paths(prefix) {
				v, _ := s.Get(path)
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", path, v)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func supportedTypes() string {
	names := make([]string, 0, len(typeNames))
	for name := range typeNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// format prints resolved values the way they are written in settings files
func format(v any) string {
	switch val := v.(type) {
	case *url.URL:
		if val == nil {
			return ""
		}
		return val.String()
	case time.Duration:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/spaghettifunk/meshview/engine"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/headless"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/systems"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type commonFlags struct {
	configPath        string
	logLevel          string
	noNormalize       bool
	requireAttributes bool
	generateNormals   bool
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to a meshview TOML config file")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	cmd.Flags().BoolVar(&f.noNormalize, "no-normalize", false, "keep the model's original coordinates")
	cmd.Flags().BoolVar(&f.requireAttributes, "require-attributes", false, "reject face corners without texcoord or normal indices")
	cmd.Flags().BoolVar(&f.generateNormals, "generate-normals", false, "fill flat normals for corners without a normal index")
}

// resolve builds the config from the file (if any) and lets explicitly set
// flags override it.
func (f *commonFlags) resolve(cmd *cobra.Command, model string) (engine.ApplicationConfig, error) {
	cfg := engine.DefaultApplicationConfig()
	if f.configPath != "" {
		loaded, err := engine.LoadApplicationConfig(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if model != "" {
		cfg.Model = model
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if cmd.Flags().Changed("no-normalize") {
		cfg.Normalize = !f.noNormalize
	}
	if cmd.Flags().Changed("require-attributes") {
		cfg.RequireAttributes = f.requireAttributes
	}
	if cmd.Flags().Changed("generate-normals") {
		cfg.GenerateNormals = f.generateNormals
	}
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "meshview",
		Short:         "Load, normalize and package OBJ models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newInfoCommand(), newWatchCommand())
	return root
}

func newInfoCommand() *cobra.Command {
	flags := &commonFlags{}
	var textures bool
	cmd := &cobra.Command{
		Use:   "info <file.obj>",
		Short: "Load a model once and print its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd, args[0])
			if err != nil {
				return err
			}
			cfg.Watch = false

			backend := headless.New()
			e, err := engine.New(cfg, backend)
			if err != nil {
				return err
			}
			defer e.Shutdown()

			if err := e.Initialize(); err != nil {
				return err
			}
			mesh := e.Scene().Active()

			var statuses []systems.TextureStatus
			if textures {
				statuses = e.SystemManager().MeshLoaderSystem().ResolveTextures(mesh)
			}
			printInfo(cmd.OutOrStdout(), mesh, statuses, textures)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&textures, "textures", false, "decode diffuse maps and report their sizes")
	return cmd
}

func newWatchCommand() *cobra.Command {
	flags := &commonFlags{}
	cmd := &cobra.Command{
		Use:   "watch [file.obj]",
		Short: "Load a model and reload it whenever it or its materials change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model := ""
			if len(args) == 1 {
				model = args[0]
			}
			cfg, err := flags.resolve(cmd, model)
			if err != nil {
				return err
			}
			cfg.Watch = true

			e, err := engine.New(cfg, headless.New())
			if err != nil {
				return err
			}
			defer e.Shutdown()

			out := cmd.OutOrStdout()
			e.Events().Register(core.EVENT_CODE_MESH_LOADED, cmd, func(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
				if mesh, ok := data.Payload.(*metadata.Mesh); ok {
					printInfo(out, mesh, nil, false)
				}
				return false
			})

			// A failed first load is retried once the file changes. Anything
			// failing before a load was attempted is fatal.
			if err := e.Initialize(); err != nil {
				if len(e.Scene().History()) == 0 {
					return err
				}
				fmt.Fprintln(out, errorStyle.Render(err.Error()))
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
			defer stop()
			return e.Run(ctx)
		},
	}
	flags.register(cmd)
	return cmd
}

func printInfo(w io.Writer, mesh *metadata.Mesh, statuses []systems.TextureStatus, withTextures bool) {
	if mesh == nil {
		return
	}
	header := titleStyle.Render(mesh.Name) + " " + labelStyle.Render(core.IdentifierShort(mesh.ID))
	fmt.Fprintln(w, boxStyle.Render(header+"\n"+mesh.Summary()))

	if !withTextures {
		return
	}
	if len(statuses) == 0 {
		fmt.Fprintln(w, labelStyle.Render("No diffuse maps referenced."))
		return
	}
	for _, s := range statuses {
		if s.Err != nil {
			fmt.Fprintf(w, "%s %s: %s\n", labelStyle.Render("map_Kd"), s.Material, errorStyle.Render(s.Err.Error()))
			continue
		}
		fmt.Fprintf(w, "%s %s: %s (%dx%d)\n", labelStyle.Render("map_Kd"), s.Material, s.Path, s.Width, s.Height)
	}
}

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/targetplatform/internal/device"
	"github.com/nerrad567/targetplatform/internal/formats"
	"github.com/nerrad567/targetplatform/internal/infrastructure/config"
	"github.com/nerrad567/targetplatform/internal/platform"
	"github.com/nerrad567/targetplatform/internal/relay"
)

func (c *cli) variantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the target variants of the configured platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.configPath())
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			variants := platform.Variants(cfg.Target.Platform, strings.ToLower(cfg.Target.Platform))
			return printVariants(cmd.OutOrStdout(), variants)
		},
	}
}

func printVariants(w io.Writer, variants []platform.Properties) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBUILD TYPE\tARCH\tPRIORITY")
	for _, v := range variants {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\n", v.Name(), v.DisplayName(), v.Arch(), v.VariantPriority)
	}
	return tw.Flush()
}

func (c *cli) devicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List or add deployment devices of a variant",
	}
	cmd.AddCommand(c.devicesListCmd(), c.devicesAddCmd())
	return cmd
}

func (c *cli) devicesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list VARIANT",
		Short: "List the devices of a variant, local device first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			e, err := openEnv(cmd.Context(), c.configPath())
			if err != nil {
				return err
			}
			defer closeEnv(e, &err)

			t, err := e.module.Target(args[0])
			if err != nil {
				return err
			}
			def, _ := t.GetDefaultDevice()
			return printDevices(cmd.OutOrStdout(), t.GetAllDevices(), def.ID)
		},
	}
}

func printDevices(w io.Writer, devices []device.Device, defaultID device.ID) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDISPLAY NAME\tLOCAL\tCREDENTIALS\tDEFAULT")
	for _, d := range devices {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%t\t%t\n",
			d.ID, d.DisplayName, d.IsLocal, d.HasCredentials(), d.ID == defaultID)
	}
	return tw.Flush()
}

func (c *cli) devicesAddCmd() *cobra.Command {
	var (
		displayName string
		username    string
		password    string
		isDefault   bool
	)

	cmd := &cobra.Command{
		Use:   "add VARIANT NAME",
		Short: "Register a remote device and persist it to the config store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			name := args[1]
			if err := device.ValidateName(name); err != nil {
				return err
			}
			if err := device.ValidateDisplayName(displayName); err != nil {
				return err
			}
			if err := device.ValidateCredentials(username, password); err != nil {
				return err
			}
			if displayName == "" {
				displayName = name
			}

			e, err := openEnv(cmd.Context(), c.configPath())
			if err != nil {
				return err
			}
			defer closeEnv(e, &err)

			t, err := e.module.Target(args[0])
			if err != nil {
				return err
			}
			if !t.AddDevice(name, displayName, username, password, isDefault) {
				return fmt.Errorf("%w: %s on %s", device.ErrDeviceExists, name, t.Name())
			}

			d, _ := t.GetDevice(device.ID{Platform: t.Registry().Platform(), Name: name})
			if _, err := relay.NewRecorder(e.db.DB).Record(cmd.Context(), relay.NewEvent(relay.KindDiscovered, d, time.Now())); err != nil {
				e.log.Warn("recording device event failed", "error", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", d.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&displayName, "display-name", "", "display name (default NAME)")
	cmd.Flags().StringVar(&username, "username", "", "remote login user")
	cmd.Flags().StringVar(&password, "password", "", "remote login password")
	cmd.Flags().BoolVar(&isDefault, "default", false, "make this the default device")
	return cmd
}

func (c *cli) formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats VARIANT",
		Short: "Show the formats a variant is cooked with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			e, err := openEnv(cmd.Context(), c.configPath())
			if err != nil {
				return err
			}
			defer closeEnv(e, &err)

			t, err := e.module.Target(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "target:              %s (%s)\n", t.Name(), t.Properties().DisplayName())
			printFormats(w, "possible shaders:", t.PossibleShaderFormats())
			printFormats(w, "targeted shaders:", t.TargetedShaderFormats())
			printFormats(w, "reflection capture:", t.ReflectionCaptureFormats())
			printFormats(w, "textures:", t.AllTextureFormats())
			printFormats(w, "sound waves:", t.AllWaveFormats())
			return nil
		},
	}
}

func printFormats(w io.Writer, label string, names []formats.Name) {
	list := "-"
	if len(names) > 0 {
		list = strings.Join(formats.Strings(names), ", ")
	}
	fmt.Fprintf(w, "%-20s %s\n", label, list)
}

// closeEnv closes e and reports a close failure through err unless the
// command already failed.
func closeEnv(e *env, err *error) {
	if closeErr := e.close(); closeErr != nil && *err == nil {
		*err = closeErr
	}
}

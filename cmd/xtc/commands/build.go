package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/xtc/internal/app"
	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/engine/resolver"
	"go.trai.ch/zerr"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <triplet>",
		Short: "Build the toolchain for one target triplet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := c.overrides()
			if err != nil {
				return err
			}

			family := domain.FamilyGNU
			if c.settings.Bool("llvm") {
				family = domain.FamilyLLVM
			}

			return c.app.Build(cmd.Context(), args[0], app.BuildOptions{
				Resolve: resolver.Options{
					Family:     family,
					Root:       c.settings.String("root"),
					BuildDir:   c.settings.String("builddir"),
					InstallDir: c.settings.String("installdir"),
					LogDir:     c.settings.String("logdir"),
					Timeouts:   c.timeouts(),
					Jobs:       c.settings.Int("jobs"),
					Clean:      c.settings.Bool("clean"),
				},
				Overrides: overrides,
				Package:   c.packageOptions(),
				Verbose:   c.settings.Bool("verbose"),
				DryRun:    c.settings.Bool("dry-run"),
			})
		},
	}

	fs := cmd.Flags()
	fs.Bool("llvm", false, "Build Clang/LLVM instead of GCC as the end-user compiler")
	fs.String("builddir", "", "Build directory (default: build-<arch>)")
	fs.String("installdir", "", "Install directory (default: install-<arch>)")
	fs.Bool("clean", false, "Remove the build directory first")
	fs.Bool("dry-run", false, "Print the build plan without running anything")

	fs.String("arch", "", "Target architecture (--with-arch / -march)")
	fs.String("abi", "", "Target ABI (--with-abi / -mabi)")
	fs.String("cpu", "", "Target CPU (--with-cpu / -mcpu)")
	fs.String("isa-spec", "", "RISC-V ISA specification version (--with-isa-spec)")
	fs.String("mode", "", "Instruction set mode, e.g. thumb (--with-mode)")
	fs.String("float", "", "Floating point ABI (--with-float / -mfloat-abi)")
	fs.String("endian", "", "Endianness (--with-endian / -mendian)")
	fs.String("llvm-arch", "", "LLVM target to build (LLVM_TARGETS_TO_BUILD)")
	fs.Bool("experimental", false, "Build the LLVM target as experimental")
	fs.String("libc", "", "C library: newlib, newlib-nano or avr-libc")
	fs.String("target-cflags", "", "Base CFLAGS for target libraries")

	addTimeoutFlags(fs)
	addPackageFlags(fs)
	return cmd
}

func (c *CLI) overrides() (domain.Overrides, error) {
	o := domain.Overrides{
		Arch:         c.stringOverride("arch"),
		ABI:          c.stringOverride("abi"),
		CPU:          c.stringOverride("cpu"),
		ISASpec:      c.stringOverride("isa-spec"),
		Mode:         c.stringOverride("mode"),
		Float:        c.stringOverride("float"),
		Endian:       c.stringOverride("endian"),
		LLVMArch:     c.stringOverride("llvm-arch"),
		TargetCFlags: c.stringOverride("target-cflags"),
	}

	if c.settings.IsSet("experimental") {
		v := c.settings.Bool("experimental")
		o.Experimental = &v
	}

	if name := c.stringOverride("libc"); name != nil {
		libc, err := domain.ParseLibC(*name)
		if err != nil {
			return domain.Overrides{}, zerr.With(zerr.Wrap(err, "invalid --libc"), "libc", *name)
		}
		o.LibC = &libc
	}

	return o, nil
}

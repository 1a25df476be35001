package commands

import (
	"github.com/spf13/pflag"
	"go.trai.ch/xtc/internal/app"
	"go.trai.ch/xtc/internal/core/domain"
)

const (
	flagConfigTimeout       = "config-timeout"
	flagBuildTimeout        = "build-timeout"
	flagInstallTimeout      = "install-timeout"
	flagBuildInstallTimeout = "build-install-timeout"
)

func addTimeoutFlags(fs *pflag.FlagSet) {
	def := domain.DefaultTimeouts()
	fs.Int(flagConfigTimeout, int(def.Config.Seconds()), "Timeout for configure steps, in seconds")
	fs.Int(flagBuildTimeout, int(def.Build.Seconds()), "Timeout for make builds, in seconds")
	fs.Int(flagInstallTimeout, int(def.Install.Seconds()), "Timeout for make installs, in seconds")
	fs.Int(flagBuildInstallTimeout, int(def.BuildInstall.Seconds()), "Timeout for ninja build-and-install, in seconds")
	fs.IntP("jobs", "j", 0, "Parallel make/ninja jobs (default: number of CPUs)")
	fs.String("logdir", "logs", "Directory for log files, relative to the root")
}

func addPackageFlags(fs *pflag.FlagSet) {
	fs.String("archive", "", "Package the install tree as a tarball: xz, zst or gz")
	fs.String("publish", "", "Upload the archive to s3://bucket/prefix (implies --archive=xz)")
}

func (c *CLI) timeouts() domain.Timeouts {
	return domain.Timeouts{
		Config:       c.settings.Seconds(flagConfigTimeout),
		Build:        c.settings.Seconds(flagBuildTimeout),
		Install:      c.settings.Seconds(flagInstallTimeout),
		BuildInstall: c.settings.Seconds(flagBuildInstallTimeout),
	}
}

func (c *CLI) packageOptions() app.PackageOptions {
	return app.PackageOptions{
		Archive: c.settings.String("archive"),
		Publish: c.settings.String("publish"),
	}
}

// stringOverride returns nil unless key was given by flag, environment or settings file.
func (c *CLI) stringOverride(key string) *string {
	if !c.settings.IsSet(key) {
		return nil
	}
	v := c.settings.String(key)
	return &v
}

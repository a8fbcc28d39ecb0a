// pluginpack creates a tar.gz release archive of a plugin source directory.
//
// Usage:
//
//	pluginpack <directory-name> <version>
//	pluginpack --list
//
// Example: pluginpack NetworkEyes 1.0.3  ->  NetworkEyes-v1.0.3.tar.gz
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yungbote/pluginhost-backend/pkg/archive"
)

const memberPreviewLimit = 10

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var listFlag bool

var rootCmd = &cobra.Command{
	Use:   "pluginpack <directory-name> <version>",
	Short: "Package a plugin directory into a versioned tar.gz archive",
	Long: `Package a plugin directory into a {name}-v{version}.tar.gz archive in the
working directory, excluding node_modules and .git directories and
package-lock.json files.

Examples:
  pluginpack NetworkEyes 1.0.3
  pluginpack MyPlugin v2.1.0
  pluginpack --list`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if listFlag {
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("both directory-name and version are required")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if listFlag {
			return runList()
		}
		return runBuild(args[0], args[1])
	},
}

func init() {
	rootCmd.Flags().BoolVar(&listFlag, "list", false, "list existing archives and available plugin directories")
}

func runBuild(name, version string) error {
	fmt.Println(subtleStyle.Render(fmt.Sprintf("Creating archive from directory %q...", name)))

	result, err := archive.Build(name, name, version, ".")
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		printSourceDirs()
		return err
	}

	fmt.Println(successStyle.Render("Archive created successfully"))
	fmt.Printf("  File: %s\n", result.ArchiveName)
	fmt.Printf("  Size: %.2f MB (%d bytes)\n", float64(result.SizeBytes)/(1024*1024), result.SizeBytes)
	fmt.Printf("  Members: %d\n", result.Members)

	printMemberPreview(result.ArchivePath)
	return nil
}

func runList() error {
	archives, err := archive.ListArchives(".")
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return err
	}
	if len(archives) == 0 {
		fmt.Println(subtleStyle.Render("No existing archives found"))
	} else {
		fmt.Println("Existing archives:")
		for _, a := range archives {
			fmt.Printf("  %s (%.2f MB)\n", a.Name, float64(a.SizeBytes)/(1024*1024))
		}
	}

	fmt.Println()
	printSourceDirs()
	return nil
}

func printSourceDirs() {
	dirs, err := archive.ListSourceDirs(".")
	if err != nil || len(dirs) == 0 {
		fmt.Println(subtleStyle.Render("No plugin directories found"))
		return
	}
	fmt.Println("Available plugin directories:")
	for _, d := range dirs {
		fmt.Printf("  %s\n", d)
	}
}

func printMemberPreview(archivePath string) {
	members, err := archive.Members(archivePath)
	if err != nil {
		return
	}
	fmt.Println("\nArchive contents:")
	for i, m := range members {
		if i == memberPreviewLimit {
			fmt.Printf("  ... and %d more files\n", len(members)-memberPreviewLimit)
			break
		}
		fmt.Printf("  %s\n", m)
	}
}

func main() {
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}

package cli

import (
	"github.com/spf13/cobra"
)

// completeBaseDir provides shell completion for the optional base directory.
func completeBaseDir(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	// Let the shell handle directory completion
	return nil, cobra.ShellCompDirectiveFilterDirs
}

// completeArchives restricts file completion to zip archives.
func completeArchives(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"zip"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeEnvFiles restricts --env-file completion to dotenv files.
func completeEnvFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"env"}, cobra.ShellCompDirectiveFilterFileExt
}

package diffsquare

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// completionShells maps each supported shell to its script generator.
var completionShells = map[string]func(w io.Writer) error{
	"bash":       rootCmd.GenBashCompletion,
	"zsh":        rootCmd.GenZshCompletion,
	"fish":       func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
	"powershell": rootCmd.GenPowerShellCompletionWithDesc,
}

func init() {
	cmd := &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion scripts",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(_ *cobra.Command, args []string) error {
			return writeCompletion(os.Stdout, args[0])
		},
		Example: `
# Bash
diffsquare completion bash > /etc/bash_completion.d/diffsquare

# Zsh
diffsquare completion zsh > "${fpath[1]}/_diffsquare"

# Fish
diffsquare completion fish > ~/.config/fish/completions/diffsquare.fish

# PowerShell
diffsquare completion powershell > $PROFILE\diffsquare.ps1
`,
	}
	rootCmd.AddCommand(cmd)
}

func writeCompletion(w io.Writer, shell string) error {
	gen, ok := completionShells[shell]
	if !ok {
		return fmt.Errorf("unsupported shell: %s", shell)
	}
	return gen(w)
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/mouramax/versatile-retrieval/internal/reduce"
	"github.com/mouramax/versatile-retrieval/internal/tool"
)

var (
	readMode      string
	readMaxChars  int
	readStartLine int
	readLineCount int
)

var readCmd = &cobra.Command{
	Use:   "read <path>",
	Short: "Read a local file with a retrieval strategy",
	Args:  cobra.ExactArgs(1),
	RunE:  runRead,
}

func init() {
	readCmd.Flags().StringVar(&readMode, "mode", "", "retrieval mode (full|head|random_chunks|summarize)")
	readCmd.Flags().IntVar(&readMaxChars, "max-chars", 0, "character budget for head/random_chunks modes")
	readCmd.Flags().IntVar(&readStartLine, "start-line", 0, "line to start reading from (full mode, 1-indexed)")
	readCmd.Flags().IntVar(&readLineCount, "line-count", 0, "number of lines to read (full mode)")
}

func runRead(cmd *cobra.Command, args []string) error {
	rc := cfg.Read
	if readMode != "" {
		rc.Mode = readMode
	}
	if readMaxChars > 0 {
		rc.MaxChars = readMaxChars
	}
	if readStartLine > 0 {
		rc.StartLine = readStartLine
	}
	if readLineCount > 0 {
		rc.LineCount = readLineCount
	}

	mode, err := reduce.ParseMode(rc.Mode)
	if err != nil {
		return err
	}

	toolCfg := tool.FileReadConfig{
		FilePath:  args[0],
		Mode:      mode,
		MaxChars:  rc.MaxChars,
		StartLine: rc.StartLine,
		LineCount: rc.LineCount,
	}
	if mode == reduce.ModeSummarize {
		toolCfg.Generator = newGenerator()
	}

	t, err := tool.NewFileReadTool(toolCfg)
	if err != nil {
		return err
	}

	env := t.Invoke(cmd.Context(), nil)
	return printEnvelope(env.JSON(), env.OK())
}

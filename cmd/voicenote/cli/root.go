package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/voicenote/transcriber/pkg/client"
)

var apiURL string

// NewRoot builds the voicenote command tree.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "voicenote",
		Short:         "Upload voice notes and get structured markdown back",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8000", "base URL of the transcriber API")

	root.AddCommand(newTranscribeCmd())
	root.AddCommand(newHealthCmd())
	return root
}

func newTranscribeCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe one audio file and print the structured note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(apiURL)
			if err := c.SelectFile(args[0]); err != nil {
				return err
			}

			result, err := c.Submit(cmd.Context())
			if err != nil {
				return fmt.Errorf("transcription failed: %s", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n\n", result.Title)
			fmt.Fprintln(cmd.OutOrStdout(), result.Markdown)

			if outDir != "" {
				path, err := c.SaveResult(outDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nsaved to %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to save the markdown note into")
	return cmd
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check API and downstream service reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			httpc := &http.Client{Timeout: 10 * time.Second}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, apiURL+"/health", nil)
			if err != nil {
				return err
			}
			resp, err := httpc.Do(req)
			if err != nil {
				return fmt.Errorf("API unreachable: %w", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}

			var pretty map[string]any
			if err := json.Unmarshal(body, &pretty); err != nil {
				return fmt.Errorf("malformed health response: %s", string(body))
			}
			out, _ := json.MarshalIndent(pretty, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type textInput struct {
	text string
	file string
}

func (in *textInput) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.text, "text", "t", "", "text to process")
	cmd.Flags().StringVarP(&in.file, "file", "f", "", "read text from file (- for stdin)")
}

func (in *textInput) read(stdin io.Reader) (string, error) {
	switch {
	case in.text != "" && in.file != "":
		return "", errors.New("use either --text or --file, not both")
	case in.file == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	case in.file != "":
		b, err := os.ReadFile(in.file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", in.file, err)
		}
		return string(b), nil
	}
	return in.text, nil
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var in textInput
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print the four-area analysis report for a text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := in.read(cmd.InOrStdin())
			if err != nil {
				return err
			}
			report := newAnalysisService(opts.cfg, newInferenceClient(opts.cfg)).Analyze(cmd.Context(), text)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	in.bind(cmd)
	return cmd
}

func newTagCmd(opts *rootOptions) *cobra.Command {
	var (
		in   textInput
		topN int
	)
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Print the top keyphrase (or --top N ranked keyphrases)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := in.read(cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc := newTaggingService(opts.cfg)
			enc := json.NewEncoder(cmd.OutOrStdout())
			if topN <= 0 {
				return enc.Encode(map[string]*string{"tag": svc.Tag(text)})
			}
			phrases, err := svc.Keyphrases(text, topN)
			if err != nil {
				return err
			}
			return enc.Encode(map[string]any{"keyphrases": phrases})
		},
	}
	in.bind(cmd)
	cmd.Flags().IntVarP(&topN, "top", "n", 0, "return the N best keyphrases with scores")
	return cmd
}

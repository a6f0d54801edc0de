package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stewi1014/hsstream/stream"
)

type textOpts struct {
	max     int
	comment string
}

func (o *textOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.max, "max", -1, "Bytes kept per item, 0 for no limit (default from config)")
	cmd.Flags().StringVar(&o.comment, "comment", "", "Comment byte (default from config)")
}

// apply returns a copy of base with the flags applied.
func (o *textOpts) apply(base *stream.Config) (*stream.Config, error) {
	cfg := *base
	if o.max >= 0 {
		cfg.MaxToken = o.max
	}
	switch len(o.comment) {
	case 0:
	case 1:
		cfg.Comment = o.comment[0]
	default:
		return nil, fmt.Errorf("comment must be a single byte, got %q", o.comment)
	}
	return &cfg, nil
}

func tokensCommand(a *app) *cobra.Command {
	opts := &textOpts{}
	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the whitespace-delimited tokens of a text file, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printText(cmd, args[0], opts, (*stream.Codec).GetToken)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func linesCommand(a *app) *cobra.Command {
	opts := &textOpts{}
	cmd := &cobra.Command{
		Use:   "lines <file>",
		Short: "Print the lines of a text file that aren't blank or comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printText(cmd, args[0], opts, (*stream.Codec).ReadLn)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func (a *app) printText(cmd *cobra.Command, name string, opts *textOpts, next func(*stream.Codec) (string, error)) error {
	cfg, err := opts.apply(a.streamCfg)
	if err != nil {
		return err
	}

	s, err := a.open(name)
	if err != nil {
		return err
	}
	defer s.Close()

	c := stream.NewCodec(s, cfg)
	out := cmd.OutOrStdout()
	for {
		item, err := next(c)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s at %d: %w", name, s.Position(), err)
		}
		fmt.Fprintln(out, item)
	}
}

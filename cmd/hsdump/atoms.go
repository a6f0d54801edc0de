package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stewi1014/hsstream"
	"github.com/stewi1014/hsstream/encio"
	"github.com/stewi1014/hsstream/stream"
)

func atomsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "atoms <file>...",
		Short: "List the tag and size of each atom in a file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				if err := a.listAtoms(cmd, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}

func (a *app) listAtoms(cmd *cobra.Command, name string) error {
	s, err := a.open(name)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s:\n", name)

	c := stream.NewCodec(s, a.streamCfg)
	var count int
	for !s.AtEnd() {
		start := s.Position()
		tag, size, err := c.ReadLEAtom()
		if err != nil {
			return fmt.Errorf("%s: atom header at %d: %w", name, start, err)
		}
		if int64(size) > stream.SizeLeft(s) {
			return encio.NewIOError(encio.ErrReadPastEnd,
				fmt.Sprintf("%s: atom at %d claims %d bytes, only %d remain", name, start, size, stream.SizeLeft(s)))
		}

		typeName := "unregistered"
		if v := hsstream.DefaultRegistry.New(tag); v != nil {
			typeName = fmt.Sprintf("%T", v)
		}
		fmt.Fprintf(out, "  %8d  tag 0x%08x  size %8d  %s\n", start, tag, size, typeName)

		if err := s.Skip(int64(size)); err != nil {
			return err
		}
		count++
	}

	a.logger.Debug("listed atoms", zap.String("name", name), zap.Int("count", count))
	return nil
}

package main

import (
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/stewi1014/hsstream/encio"
	"github.com/stewi1014/hsstream/metrics"
	"github.com/stewi1014/hsstream/stream"
)

func statsCommand(a *app) *cobra.Command {
	var (
		chunk     int
		blockSize int
	)
	cmd := &cobra.Command{
		Use:   "stats <file>...",
		Short: "Read files through a Buffered stream and report its cache statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if chunk <= 0 {
				return fmt.Errorf("chunk must be positive, got %d", chunk)
			}

			cfg := *a.streamCfg
			if blockSize > 0 {
				cfg.BlockSize = blockSize
			}

			var reg *prometheus.Registry
			if a.cfg.Metrics.Enabled {
				reg = prometheus.NewRegistry()
				cfg.Reporter = metrics.NewBufferCollector(a.cfg.Metrics.Namespace, reg, a.logger)
			}

			out := cmd.OutOrStdout()
			for _, name := range args {
				stats, err := readThrough(name, chunk, &cfg)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: hits %d, misses %d, read in %d, read out %d, read direct %d\n",
					name, stats.Hits, stats.Misses, stats.BytesReadIn, stats.BytesReadOut, stats.BytesReadDirect)
			}

			if reg != nil {
				return printMetrics(cmd, reg)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&chunk, "chunk", 16, "Bytes requested per read")
	cmd.Flags().IntVar(&blockSize, "block-size", 0, "Read cache size (default from config)")
	return cmd
}

func readThrough(name string, chunk int, cfg *stream.Config) (stream.BufferStats, error) {
	b, err := stream.OpenBuffered(name, "rb", cfg)
	if err != nil {
		return stream.BufferStats{}, err
	}

	buff := make([]byte, chunk)
	for !b.AtEnd() {
		n := int64(len(buff))
		if left := stream.SizeLeft(b); left < n {
			n = left
		}
		if err := encio.Read(buff[:n], b); err != nil {
			b.SetCloseReason("error")
			b.Close()
			return stream.BufferStats{}, err
		}
	}

	b.SetCloseReason("eof")
	if err := b.Close(); err != nil {
		return stream.BufferStats{}, err
	}
	return b.Stats(), nil
}

func printMetrics(cmd *cobra.Command, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, l := range m.GetLabel() {
				name += fmt.Sprintf("{%s=%q}", l.GetName(), l.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s %v", name, m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)

	out := cmd.OutOrStdout()
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"anm-exporter/internal/anm"
	"anm-exporter/internal/config"
	"anm-exporter/internal/preview"

	"github.com/spf13/cobra"
)

type plotOptions struct {
	output   string
	bone     string
	width    int
	height   int
	channels []int
}

func newPlotCmd(g *globalOptions) *cobra.Command {
	o := &plotOptions{}
	def := preview.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "plot <anmdata.json>",
		Short: "Render the channel curves of one track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, g, o, args[0])
		},
	}
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Image to write (.webp or .tga)")
	cmd.Flags().StringVar(&o.bone, "bone", "", "Bone name or track path (default: first track)")
	cmd.Flags().IntVar(&o.width, "width", def.Width, "Image width")
	cmd.Flags().IntVar(&o.height, "height", def.Height, "Image height")
	cmd.Flags().IntSliceVar(&o.channels, "channel", nil, "Channel ids to plot (default: all)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runPlot(cmd *cobra.Command, g *globalOptions, o *plotOptions, input string) error {
	s, err := g.load(cmd, config.Flags{})
	if err != nil {
		return err
	}
	defer s.close()

	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()
	a, err := anm.DecodeText(f, s.opts.Text)
	if err != nil {
		return err
	}

	opts := preview.DefaultOptions()
	opts.Width, opts.Height = o.width, o.height
	for _, id := range o.channels {
		if id < 0 || id > 255 {
			return fmt.Errorf("channel %d out of range", id)
		}
		opts.Channels = append(opts.Channels, anm.ChannelID(id))
	}
	if err := plotTrack(a, o.bone, o.output, opts); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", o.output)
	return nil
}

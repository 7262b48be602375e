package cmd

import (
	"net/http"
	"os"
	"time"

	"github.com/jsphweid/cuegrid/constants"
	"github.com/jsphweid/cuegrid/grid"
	"github.com/jsphweid/cuegrid/logger"
	"github.com/jsphweid/cuegrid/model"
	"github.com/jsphweid/cuegrid/session"
	"github.com/jsphweid/cuegrid/util"
	"github.com/spf13/cobra"
)

var (
	serveAddr      string
	serveSaveDelay time.Duration
	serveFresh     bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to $CUEGRID_ADDR or :8080)")
	serveCmd.Flags().DurationVar(&serveSaveDelay, "save-delay", 500*time.Millisecond, "quiet time after an edit before the snapshot is written")
	serveCmd.Flags().BoolVar(&serveFresh, "fresh", false, "start from an empty chart even if a snapshot exists")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves a chart over HTTP",
	Long:  `Serves the chart in the output dir (or a new one) for editing over HTTP, saving it as it changes.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l := newLogger()
		if _, err := util.EnsureOutputDir(); err != nil {
			return err
		}
		path := util.GetSnapshotPath()
		s, err := LoadSession(l, path, serveFresh)
		if err != nil {
			return err
		}
		addr := serveAddr
		if addr == "" {
			addr = constants.GetAddr()
		}
		srv := NewServer(s, l, path, serveSaveDelay)
		l.Infof("serving session %v on %v", s.ID(), addr)
		return http.ListenAndServe(addr, srv.Router())
	},
}

// LoadSession restores the snapshot at path, or starts an empty session when
// there is none.
func LoadSession(l *logger.Logger, path string, fresh bool) (*session.Session, error) {
	if fresh {
		return session.New(l, grid.Default), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return session.New(l, grid.Default), nil
	}
	snap, err := util.ReadBinary[model.ChartSnapshot](path)
	if err != nil {
		return nil, err
	}
	return session.Restore(l, grid.Default, snap)
}

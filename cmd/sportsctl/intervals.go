package main

import (
	"fmt"
	"time"

	"zsports/sports-history/internal/intervals"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newIntervalsCmd(a *app) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "intervals",
		Short: "Read the intervals.icu cache, fetching on a miss",
	}
	cmd.PersistentFlags().BoolVar(&refresh, "refresh", false, "drop the cached file and fetch again")

	client := func() (*intervals.Client, error) {
		if err := a.cfg.ValidateIntervals(); err != nil {
			return nil, err
		}
		return intervals.NewClient(a.cfg.Intervals.BaseURL, a.cfg.Intervals.APIKey, a.cfg.Intervals.AthleteID, a.cfg.Paths.DataRoot, nil)
	}

	read := func(cmd *cobra.Command, c *intervals.Client, kind intervals.Kind) ([]byte, error) {
		if refresh {
			return c.Refresh(cmd.Context(), kind)
		}
		switch kind {
		case intervals.KindWorkouts:
			return c.Workouts(cmd.Context())
		case intervals.KindActivities:
			return c.Activities(cmd.Context())
		default:
			return c.ActivitiesCSV(cmd.Context())
		}
	}

	workouts := &cobra.Command{
		Use:   "workouts",
		Short: "Workout library",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			raw, err := read(cmd, c, intervals.KindWorkouts)
			if err != nil {
				return err
			}
			list, err := intervals.DecodeWorkouts(raw)
			if err != nil {
				return err
			}
			for _, w := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", w.ID, w.Type, w.Name)
			}
			log.Infof("%d workouts in %s", len(list), c.CachePath(intervals.KindWorkouts))
			return nil
		},
	}

	var oldest, newest string
	activities := &cobra.Command{
		Use:   "activities",
		Short: "Completed activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			var raw []byte
			if oldest != "" || newest != "" {
				q, err := parseRange(oldest, newest)
				if err != nil {
					return err
				}
				raw, err = c.GetActivities(cmd.Context(), q)
				if err != nil {
					return err
				}
			} else if raw, err = read(cmd, c, intervals.KindActivities); err != nil {
				return err
			}
			list, err := intervals.DecodeActivities(raw)
			if err != nil {
				return err
			}
			for _, act := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", act.ID, act.StartDateLocal, act.Type, act.Name)
			}
			log.Infof("%d activities in %s", len(list), c.CachePath(intervals.KindActivities))
			return nil
		},
	}
	activities.Flags().StringVar(&oldest, "oldest", "", "lower bound, YYYY-MM-DD (fetches, overwrites cache)")
	activities.Flags().StringVar(&newest, "newest", "", "upper bound, YYYY-MM-DD (fetches, overwrites cache)")

	csv := &cobra.Command{
		Use:   "csv",
		Short: "Activities as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			raw, err := read(cmd, c, intervals.KindActivitiesCSV)
			if err != nil {
				return err
			}
			log.Infof("%d bytes in %s", len(raw), c.CachePath(intervals.KindActivitiesCSV))
			return nil
		},
	}

	cmd.AddCommand(workouts, activities, csv)
	return cmd
}

func parseRange(oldest, newest string) (intervals.ActivitiesQuery, error) {
	var q intervals.ActivitiesQuery
	var err error
	if oldest != "" {
		if q.Oldest, err = time.Parse(time.DateOnly, oldest); err != nil {
			return q, fmt.Errorf("--oldest: %w", err)
		}
	}
	if newest != "" {
		if q.Newest, err = time.Parse(time.DateOnly, newest); err != nil {
			return q, fmt.Errorf("--newest: %w", err)
		}
	}
	return q, nil
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/moodlens/moodlens/backend/internal/capture"
	"github.com/moodlens/moodlens/backend/internal/client"
	"github.com/moodlens/moodlens/backend/internal/config"
	"github.com/moodlens/moodlens/backend/internal/model/emotion"
	statsservice "github.com/moodlens/moodlens/backend/internal/service/stats"
	"github.com/moodlens/moodlens/backend/pkg/logger"
)

// emotionfeeder stands in for the browser client: it runs the capture loop
// against the stub detector, streams the resulting records to a running
// server, and polls /api/stats along the way.
func main() {
	log := logger.Component("feeder")

	if err := godotenv.Load(); err != nil {
		log.WithError(err).Warn("no .env file, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	socketURL := flag.String("url", cfg.Client.SocketURL, "websocket URL of the aggregation server")
	apiURL := flag.String("api", cfg.Client.APIURL, "base URL of the query API")
	interval := flag.Duration("interval", time.Duration(cfg.Capture.IntervalMS)*time.Millisecond, "capture tick interval")
	duration := flag.Duration("duration", 30*time.Second, "how long to stream before closing")
	poll := flag.Duration("poll", 5*time.Second, "stats polling interval")
	flag.Parse()

	log = log.WithField("client", uuid.NewString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transport := client.New(*socketURL)
	if err := transport.Dial(ctx); err != nil {
		log.WithError(err).Fatal("failed to connect")
	}
	defer transport.Close()

	trend := capture.NewTrend(cfg.Capture.TrendWindow)
	loop := capture.NewLoop(capture.StubDetector{}, trend, *interval, func(rec emotion.Record) {
		transport.Send(rec)
	})

	loop.Start(ctx)
	defer loop.Stop()

	log.WithFields(logger.Fields{
		"url":      *socketURL,
		"interval": interval.String(),
		"duration": duration.String(),
	}).Info("streaming synthetic emotions")

	ticker := time.NewTicker(*poll)
	defer ticker.Stop()
	deadline := time.NewTimer(*duration)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			report(log, trend, transport)
			return
		case <-deadline.C:
			report(log, trend, transport)
			return
		case <-ticker.C:
			pollStats(ctx, log, *apiURL)
		}
	}
}

// pollStats fetches and prints the server-side overview.
func pollStats(ctx context.Context, log *logrus.Entry, apiURL string) {
	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, apiURL+"/api/stats", nil)
	if err != nil {
		log.WithError(err).Warn("failed to build stats request")
		return
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("stats poll failed")
		return
	}
	defer resp.Body.Close()

	var overview statsservice.Overview
	if err := json.NewDecoder(resp.Body).Decode(&overview); err != nil {
		log.WithError(err).Warn("failed to decode stats response")
		return
	}

	log.WithFields(logger.Fields{
		"peak":       overview.PeakEmotion,
		"confidence": fmt.Sprintf("%.2f", overview.ConfidenceAverage),
		"recent":     overview.RecentEmotionsCount,
		"total":      overview.TotalEmotionsCount,
	}).Info("server stats")
}

// report prints the local trend window summary before exit.
func report(log *logrus.Entry, trend *capture.Trend, transport *client.Client) {
	current, ok := trend.Current()
	fields := logger.Fields{
		"state":  transport.State(),
		"window": trend.Len(),
	}
	if ok {
		fields["current"] = current.Emotion
		fields["confidence"] = fmt.Sprintf("%.2f", current.Confidence)
	}
	log.WithFields(fields).Info("feeder done")
}

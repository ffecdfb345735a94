package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/client"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/client/prefs"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/client/render"
	"github.com/Jaya3110/Stress-Detection-Video-analysis/internal/observability/logging"
)

const privacyNotice = `This tool uses video analysis technology:
  - Your video is processed solely for stress detection purposes
  - Analysis is performed by a configured analysis server
  - Pass -delete-after to have the server remove your video after processing`

func main() {
	var (
		filePath    = flag.String("file", "", "path to the video file to analyze")
		serverURL   = flag.String("server", "http://localhost:5000", "gateway base URL")
		deleteAfter = flag.Bool("delete-after", false, "ask the server to delete the video after processing")
		acceptFlag  = flag.Bool("accept-privacy-notice", false, "acknowledge the privacy notice without prompting")
		timeout     = flag.Duration("timeout", 5*time.Minute, "overall upload and analysis timeout")
		logLevel    = flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	slog.SetDefault(logging.NewTextLogger(os.Stderr, *logLevel))

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -file <video> [-server URL] [-delete-after]")
		os.Exit(2)
	}

	if err := ensurePrivacyAcknowledged(*acceptFlag, *deleteAfter); err != nil {
		log.Fatalf("privacy notice: %v", err)
	}

	info, err := os.Stat(*filePath)
	if err != nil {
		log.Fatalf("video file: %v", err)
	}

	controller := client.NewController(
		client.NewHTTPTransport(*serverURL, *timeout),
		client.WithOnChange(drawProgress),
	)
	controller.SetDeleteAfter(*deleteAfter)

	if err := controller.SelectFile(client.FileInfo{
		Name:     filepath.Base(*filePath),
		Path:     *filePath,
		Size:     info.Size(),
		MimeType: client.DetectMimeType(*filePath),
	}); err != nil {
		fmt.Fprintln(os.Stderr)
		log.Fatalf("select video: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	err = controller.Submit(ctx)
	fmt.Fprintln(os.Stderr)
	snap := controller.Snapshot()
	if err != nil {
		log.Fatalf("analysis failed: %s", snap.ErrMsg)
	}

	printResult(render.Project(snap.Result))
}

func ensurePrivacyAcknowledged(acceptFlag, deleteAfter bool) error {
	path, err := prefs.DefaultPath()
	if err != nil {
		return err
	}
	store := prefs.NewStore(path)

	p, err := store.Load()
	if err != nil {
		return err
	}
	if p.PrivacyNoticeAcknowledged {
		return nil
	}

	fmt.Fprintln(os.Stderr, privacyNotice)
	if !acceptFlag {
		fmt.Fprint(os.Stderr, "Continue? [y/N] ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			return fmt.Errorf("not acknowledged")
		}
	}

	p.PrivacyNoticeAcknowledged = true
	p.DeleteAfterProcessing = deleteAfter
	return store.Save(p)
}

func drawProgress(snap client.Snapshot) {
	if !snap.Loading() && snap.Status != client.StatusComplete {
		return
	}
	fmt.Fprintf(os.Stderr, "\r%-10s %3.0f%% ", snap.StepIndex, snap.Progress)
}

func printResult(view render.View) {
	fmt.Println("Analysis Result")
	fmt.Printf("  Stress Detected: %s\n", colorize(view.StressLine, view.StressColor))
	if view.SBP != "" {
		fmt.Printf("  SBP: %s\n", view.SBP)
	}
	if view.DBP != "" {
		fmt.Printf("  DBP: %s\n", view.DBP)
	}
	if view.HR != "" {
		fmt.Printf("  HR:  %s\n", view.HR)
	}
	if view.Emotion != "" {
		fmt.Printf("  Overall Emotion: %s\n", colorize(view.Emotion, view.EmotionColor))
	}
	if len(view.Timeline) > 0 {
		fmt.Println("  Emotion Timeline:")
		for _, seg := range view.Timeline {
			bar := strings.Repeat("█", barWidth(seg.WidthPercent))
			fmt.Printf("    %-9s %s %.0f%%\n", seg.Emotion, colorize(bar, seg.Color), seg.WidthPercent)
		}
	}
}

func barWidth(percent float64) int {
	// Half a column per percent keeps the widest bar at 50 characters.
	w := int(percent / 2)
	if w < 1 {
		w = 1
	}
	return w
}

var ansiByHex = map[string]string{
	"#e74c3c": "\033[31m",
	"#2ecc71": "\033[32m",
	"#3498db": "\033[34m",
	"#f39c12": "\033[33m",
	"#9b59b6": "\033[35m",
	"#95a5a6": "\033[37m",
}

func colorize(text, hex string) string {
	code, ok := ansiByHex[hex]
	if !ok {
		return text
	}
	return code + text + "\033[0m"
}

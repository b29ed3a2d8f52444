package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"lesson-booking/internal/clock"
	"lesson-booking/internal/wizard"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "booking service base URL")
	timeout := flag.Int("timeout", 15, "request timeout in seconds")
	flag.Parse()

	client := wizard.NewClient(*serverURL, time.Duration(*timeout)*time.Second)
	w := wizard.New(client, clock.System())
	in := bufio.NewScanner(os.Stdin)

	color.New(color.Bold).Println("Book a trial lesson")

	for {
		switch w.State() {
		case wizard.StatePickDate:
			date, ok := prompt(in, "Lesson date (YYYY-MM-DD): ")
			if !ok {
				return
			}
			day, err := time.ParseInLocation("2006-01-02", date, time.Local)
			if err != nil {
				color.Red("Not a valid date: %s", date)
				continue
			}
			if err := w.SelectDate(day); err != nil {
				color.Red("%v", err)
			}

		case wizard.StatePickTime:
			input, ok := prompt(in, "Start time (HH:MM), or 'back': ")
			if !ok {
				return
			}
			if input == "back" {
				_ = w.BackToDate()
				continue
			}
			hour, minute, err := parseTime(input)
			if err != nil {
				color.Red("Not a valid time: %s", input)
				continue
			}
			if err := w.SelectTime(hour, minute); err != nil {
				color.Red("%v", err)
			}

		case wizard.StateEnterContactInfo:
			if lastErr := w.LastError(); lastErr != "" {
				color.Red("Booking failed: %s", lastErr)
			}
			name, ok := prompt(in, "Your name, or 'back': ")
			if !ok {
				return
			}
			if name == "back" {
				_ = w.BackToTime()
				continue
			}
			email, ok := prompt(in, "Your email: ")
			if !ok {
				return
			}

			fmt.Println("Submitting...")
			if _, err := w.Submit(context.Background(), name, email); err != nil {
				color.Red("%v", err)
			}

		case wizard.StateConfirmed:
			result := w.Result()
			color.Green("Lesson booked! Event id: %s", result.EventID)
			if result.MeetLink != "" {
				color.Green("Meet link: %s", result.MeetLink)
			}
			fmt.Println("An invitation has been sent to your email.")
			return
		}
	}
}

func prompt(in *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !in.Scan() {
		return "", false
	}
	return strings.TrimSpace(in.Text()), true
}

func parseTime(input string) (int, int, error) {
	parts := strings.SplitN(input, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM")
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("bad hour")
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("bad minute")
	}

	return hour, minute, nil
}

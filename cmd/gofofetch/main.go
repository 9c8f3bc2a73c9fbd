package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const trackPage = "https://www.gofoexpress.nl/track/"

// fetchScript calls the carrier's tracking API from inside the page so the
// request carries the site's cookies and passes its bot checks.
const fetchScript = `async (tn) => {
	const res = await fetch("https://www.gofoexpress.nl/open-api/official/track/queryTrackV2", {
		method: "POST",
		headers: { "Content-Type": "application/json", lang: "en" },
		body: JSON.stringify({ numberList: [tn], year: new Date().getFullYear() }),
	});
	return JSON.stringify(await res.json());
}`

// Headless-browser helper for GofoExpress. Takes a tracking number as its
// only argument and prints the carrier's JSON response on stdout.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Missing tracking number argument")
		os.Exit(1)
	}
	trackingNumber := os.Args[1]

	body, err := fetchTracking(trackingNumber)
	if err != nil {
		fmt.Fprintf(os.Stderr, "GofoExpress fetch failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(body)
}

func fetchTracking(trackingNumber string) (string, error) {
	path := launcher.New().
		Headless(true).
		NoSandbox(true).
		Set("disable-dev-shm-usage")
	if bin := os.Getenv("GOFO_BROWSER_BIN"); bin != "" {
		path = path.Bin(bin)
	}

	controlURL, err := path.Launch()
	if err != nil {
		return "", fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("connecting to browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: trackPage})
	if err != nil {
		return "", fmt.Errorf("opening tracking page: %w", err)
	}
	if err := page.WaitDOMStable(time.Second, 0); err != nil {
		return "", fmt.Errorf("waiting for page: %w", err)
	}

	// The site sets its session cookies shortly after load.
	time.Sleep(5 * time.Second)

	result, err := page.Eval(fetchScript, trackingNumber)
	if err != nil {
		return "", fmt.Errorf("querying tracking API: %w", err)
	}
	return result.Value.Str(), nil
}

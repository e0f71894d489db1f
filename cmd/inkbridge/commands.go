package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Cgriz365/inkbridge/internal/bridge"
	"github.com/Cgriz365/inkbridge/internal/credstore"
	"github.com/Cgriz365/inkbridge/internal/discovery"
	"github.com/Cgriz365/inkbridge/internal/logging"
	"github.com/Cgriz365/inkbridge/internal/resources"
	"github.com/Cgriz365/inkbridge/internal/ui"
	"github.com/Cgriz365/inkbridge/internal/urls"
)

func init() {
	rootCmd.AddCommand(beginCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(setKeyCmd)
	rootCmd.AddCommand(setURLCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(musicCmd)
	rootCmd.AddCommand(discoverCmd)
}

// identityDetails lists the bridge state for output.
func identityDetails(b *bridge.Bridge, store credstore.Store) []ui.Detail {
	return []ui.Detail{
		{Key: "Device ID", Value: orNone(b.DeviceID())},
		{Key: "User", Value: b.FriendlyName()},
		{Key: "UID", Value: orNone(b.UID())},
		{Key: "API key", Value: orNone(logging.Redact(b.APIKey()))},
		{Key: "Backend", Value: b.APIBaseURL()},
		{Key: "Store", Value: store.Location()},
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// beginCmd runs the bootstrap
var beginCmd = &cobra.Command{
	Use:   "begin",
	Short: "Establish identity and register if needed",
	Long: `Load stored state, derive the device id from the network hardware address
if none is stored, and register with the backend when no API key is held.

A device that is already registered makes no network calls.`,
	Example: `  # Bootstrap with the configured backend
  inkbridge begin

  # Wipe stored state first
  inkbridge begin --reset

  # Use a specific interface for the device id
  inkbridge begin --interface wlan0`,
	RunE: runBegin,
}

var beginReset bool

func init() {
	beginCmd.Flags().BoolVar(&beginReset, "reset", false, "Erase stored identity and credentials before starting")
}

func runBegin(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, beginReset)
	if err != nil {
		return err
	}
	defer s.close()

	registered, err := s.begin(cmd.Context())
	if err != nil {
		return s.fail("Begin failed", err)
	}

	if !registered {
		s.out.PrintWarning("Device not registered", identityDetails(s.bridge, s.store)...)
		return nil
	}
	s.out.PrintSuccess("Device ready", identityDetails(s.bridge, s.store)...)
	return nil
}

// statusCmd shows stored state without touching the network
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored identity and credentials",
	Long: `Display the identity and credentials held in the credential store.

No network calls are made and nothing is derived or registered.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.store.Init(); err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}

	value := func(key string) string {
		v, ok := s.store.Load(key)
		if !ok {
			return "(absent)"
		}
		if key == credstore.KeyAPIKey {
			return logging.Redact(v)
		}
		return v
	}

	s.out.PrintHeader("Device status", "inkbridge status")
	s.out.PrintTable(
		ui.Detail{Key: "Device ID", Value: value(credstore.KeyDeviceID)},
		ui.Detail{Key: "User", Value: value(credstore.KeyFriendlyUser)},
		ui.Detail{Key: "UID", Value: value(credstore.KeyUID)},
		ui.Detail{Key: "API key", Value: value(credstore.KeyAPIKey)},
		ui.Detail{Key: "Stored backend", Value: value(credstore.KeyAPIURL)},
		ui.Detail{Key: "Store", Value: s.store.Location()},
		ui.Detail{Key: "Config", Value: s.cfg.Path()},
	)
	return nil
}

// registerCmd forces a registration handshake
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register with the backend, even if an API key is held",
	RunE:  runRegister,
}

func runRegister(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.close()

	if _, err := s.begin(cmd.Context()); err != nil {
		return s.fail("Begin failed", err)
	}
	if !s.bridge.RegisteredOnBegin() {
		if err := s.bridge.Register(cmd.Context()); err != nil {
			return s.fail("Registration failed", err)
		}
	}

	s.out.PrintSuccess("Device registered", identityDetails(s.bridge, s.store)...)
	return nil
}

// setKeyCmd stores an API key obtained out of band
var setKeyCmd = &cobra.Command{
	Use:     "set-key <api-key>",
	Short:   "Store an API key",
	Example: `  inkbridge set-key ik_3f9a...`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.TrimSpace(args[0])
		if key == "" {
			return fmt.Errorf("API key must not be empty")
		}
		return withStore(cmd, func(s *session) error {
			if err := s.bridge.SetAPIKey(key); err != nil {
				return err
			}
			s.out.PrintSuccess("API key stored", ui.Detail{Key: "API key", Value: logging.Redact(key)})
			return nil
		})
	},
}

// setURLCmd stores the backend base URL
var setURLCmd = &cobra.Command{
	Use:   "set-url <base-url>",
	Short: "Store the backend base URL",
	Example: `  inkbridge set-url https://api.example.com/api
  inkbridge set-url http://192.168.1.20:8080`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *session) error {
			if err := s.bridge.SetAPIBaseURL(strings.TrimRight(args[0], "/")); err != nil {
				return err
			}
			s.out.PrintSuccess("Backend URL stored", ui.Detail{Key: "Backend", Value: s.bridge.APIBaseURL()})
			return nil
		})
	},
}

// resetCmd erases stored state
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase stored identity and credentials",
	Long: `Erase the device id, uid, API key, friendly name and stored backend URL.

The next begin derives the device id again and re-registers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *session) error {
			if err := s.bridge.FactoryReset(); err != nil {
				return err
			}
			s.out.PrintSuccess("Device reset", ui.Detail{Key: "Store", Value: s.store.Location()})
			return nil
		})
	},
}

// withStore opens the store and runs fn without bootstrapping.
func withStore(cmd *cobra.Command, fn func(*session) error) error {
	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.store.Init(); err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	return fn(s)
}

// Fetch flags
var (
	fetchLocation    string
	fetchSymbol      string
	fetchDays        int
	fetchDate        string
	fetchCategory    string
	fetchRange       string
	fetchOrigin      string
	fetchDestination string
	fetchMode        string
	fetchDomain      string
	fetchCanvasKey   string
	fetchRaw         bool
)

// fetchCmd fetches one resource kind
var fetchCmd = &cobra.Command{
	Use:   "fetch <kind>",
	Short: "Fetch a resource from the backend",
	Long: `Fetch one resource kind and print the backend's JSON response.

Kinds: ` + kindList() + `

The device is bootstrapped first and must end up registered.`,
	Example: `  inkbridge fetch weather --location Paris
  inkbridge fetch forecast --days 5
  inkbridge fetch stock --symbol MSFT --days 30
  inkbridge fetch travel --origin Home --destination Office --mode transit
  inkbridge fetch lms-grades --domain school.instructure.com`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func kindList() string {
	names := make([]string, 0, len(bridge.Kinds))
	for _, k := range bridge.Kinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

func init() {
	f := fetchCmd.Flags()
	f.StringVar(&fetchLocation, "location", "", "Location for weather kinds")
	f.StringVar(&fetchSymbol, "symbol", "", "Ticker or coin symbol")
	f.IntVar(&fetchDays, "days", 0, "Forecast length, or price history days for stock/crypto")
	f.StringVar(&fetchDate, "date", "", "History date (YYYY-MM-DD)")
	f.StringVar(&fetchCategory, "category", resources.DefaultNewsCategory, "News category")
	f.StringVar(&fetchRange, "range", resources.DefaultCalendarRange, "Calendar range")
	f.StringVar(&fetchOrigin, "origin", "", "Travel origin")
	f.StringVar(&fetchDestination, "destination", "", "Travel destination")
	f.StringVar(&fetchMode, "mode", "driving", "Travel mode")
	f.StringVar(&fetchDomain, "domain", "", "LMS domain")
	f.StringVar(&fetchCanvasKey, "canvas-key", "", "LMS access token")
	f.BoolVar(&fetchRaw, "raw", false, "Print compact JSON only")
}

func runFetch(cmd *cobra.Command, args []string) error {
	kind, err := bridge.ParseKind(args[0])
	if err != nil {
		return fmt.Errorf("%w (kinds: %s)", err, kindList())
	}

	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.requireRegistered(cmd); err != nil {
		return err
	}

	resp := fetchKind(cmd, s.client(), kind)
	return s.printResponse(string(kind), resp)
}

func fetchKind(cmd *cobra.Command, c *resources.Client, kind bridge.Kind) bridge.Response {
	ctx := cmd.Context()
	days := func(def int) int {
		if fetchDays > 0 {
			return fetchDays
		}
		return def
	}

	switch kind {
	case bridge.KindWeather:
		return c.Weather(ctx, fetchLocation)
	case bridge.KindForecast:
		return c.Forecast(ctx, fetchLocation, days(resources.DefaultForecastDays))
	case bridge.KindHistory:
		return c.History(ctx, fetchLocation, fetchDate)
	case bridge.KindAstronomy:
		return c.Astronomy(ctx, fetchLocation)
	case bridge.KindStock:
		if fetchDays > 0 {
			return c.StockArray(ctx, fetchSymbol, fetchDays)
		}
		return c.Stock(ctx, fetchSymbol)
	case bridge.KindCrypto:
		if fetchDays > 0 {
			return c.CryptoArray(ctx, fetchSymbol, fetchDays)
		}
		return c.Crypto(ctx, fetchSymbol)
	case bridge.KindNews:
		return c.News(ctx, fetchCategory)
	case bridge.KindCalendar:
		return c.Calendar(ctx, fetchRange)
	case bridge.KindTravel:
		return c.Travel(ctx, fetchOrigin, fetchDestination, fetchMode)
	case bridge.KindLMSTodos:
		return c.Canvas(ctx, resources.CanvasTodo, fetchDomain, fetchCanvasKey)
	case bridge.KindLMSGrades:
		return c.Canvas(ctx, resources.CanvasGrades, fetchDomain, fetchCanvasKey)
	default:
		return c.Fetch(ctx, kind)
	}
}

// musicCmd issues music service requests
var musicCmd = &cobra.Command{
	Use:   "music <albums|playlists|liked|artists|devices|play|pause|next|previous>",
	Short: "Query or control the linked music service",
	Example: `  inkbridge music playlists --limit 10
  inkbridge music play --uri spotify:album:123
  inkbridge music pause`,
	Args: cobra.ExactArgs(1),
	RunE: runMusic,
}

var (
	musicLimit  int
	musicOffset int
	musicAfter  string
	musicURI    string
	musicDevice string
)

func init() {
	f := musicCmd.Flags()
	f.IntVar(&musicLimit, "limit", resources.DefaultMusicLimit, "Page size")
	f.IntVar(&musicOffset, "offset", 0, "Page offset")
	f.StringVar(&musicAfter, "after", "", "Cursor for followed artists")
	f.StringVar(&musicURI, "uri", "", "Item to play")
	f.StringVar(&musicDevice, "target-device", "", "Playback device id")
}

func runMusic(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.requireRegistered(cmd); err != nil {
		return err
	}

	c := s.client()
	ctx := cmd.Context()
	action := args[0]

	var resp bridge.Response
	switch action {
	case "albums":
		resp = c.Albums(ctx, musicLimit, musicOffset)
	case "playlists":
		resp = c.Playlists(ctx, musicLimit, musicOffset)
	case "liked":
		resp = c.LikedSongs(ctx, musicLimit, musicOffset)
	case "artists":
		resp = c.FollowedArtists(ctx, musicLimit, musicAfter)
	case "devices":
		resp = c.PlaybackDevices(ctx)
	case "play", "pause", "next", "previous":
		resp = c.Control(ctx, resources.Playback{Action: action, URI: musicURI, TargetDeviceID: musicDevice})
	default:
		return fmt.Errorf("unknown music action %q", action)
	}
	return s.printResponse("music "+action, resp)
}

// requireRegistered bootstraps the device and fails unless it is registered.
func (s *session) requireRegistered(cmd *cobra.Command) error {
	registered, err := s.begin(cmd.Context())
	if err != nil {
		return s.fail("Begin failed", err)
	}
	if !registered {
		err := fmt.Errorf("device is not registered; run inkbridge register or inkbridge set-key")
		s.out.PrintError("Not registered", err, []string{"See " + urls.Troubleshooting})
		return err
	}
	return nil
}

func (s *session) printResponse(label string, resp bridge.Response) error {
	if fetchRaw {
		s.out.Println(resp.JSON())
		return resp.Err()
	}

	if !resp.OK() {
		err := resp.Err()
		_ = s.fail("Fetch "+label+" failed", err)
		if body := resp.JSON(); body != "" {
			s.out.Println(indentJSON(body))
		}
		return err
	}

	s.out.PrintHeader("Fetch "+label, "Outcome: "+resp.Outcome.String())
	s.out.Println(indentJSON(resp.JSON()))
	return nil
}

func indentJSON(compact string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(compact), "", "  "); err != nil {
		return compact
	}
	return buf.String()
}

// discoverCmd finds backends on the local network
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover InkBridge backends on the local network",
	Long: `Browse for backends advertised over mDNS/DNS-SD (` + discovery.ServiceType + `).

Use --use N to store the base URL of the Nth backend found.`,
	Example: `  # Scan for 5 seconds (default)
  inkbridge discover

  # Scan and use the first backend found
  inkbridge discover --use 1`,
	RunE: runDiscover,
}

var (
	discoverTimeout int
	discoverUse     int
)

func init() {
	discoverCmd.Flags().IntVar(&discoverTimeout, "timeout", int(discovery.DefaultScanTimeout/time.Second), "Scan timeout in seconds")
	discoverCmd.Flags().IntVar(&discoverUse, "use", 0, "Store the base URL of backend N (1-based)")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	out := ui.NewPrinter(cmd.OutOrStdout())
	out.Printf("Scanning for InkBridge backends (timeout: %ds)...\n\n", discoverTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(discoverTimeout) * time.Second
	backends, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(backends) == 0 {
		out.PrintWarning("No backends found",
			ui.Detail{Key: "Service", Value: discovery.ServiceType},
			ui.Detail{Key: "Hint", Value: "try a longer --timeout"},
		)
		return nil
	}

	out.Printf("Found %d backend(s):\n\n", len(backends))
	for i, b := range backends {
		out.Printf("%d. %s\n", i+1, b.Instance)
		out.PrintTable(
			ui.Detail{Key: "URL", Value: b.BaseURL()},
			ui.Detail{Key: "Host", Value: b.Host},
		)
		out.Newline()
	}

	if discoverUse == 0 {
		out.Println("Use 'inkbridge discover --use N' to store a backend URL")
		return nil
	}
	if discoverUse < 1 || discoverUse > len(backends) {
		return fmt.Errorf("--use %d out of range (1-%d)", discoverUse, len(backends))
	}

	chosen := backends[discoverUse-1]
	return withStore(cmd, func(s *session) error {
		if err := s.bridge.SetAPIBaseURL(chosen.BaseURL()); err != nil {
			return err
		}
		s.out.PrintSuccess("Backend URL stored",
			ui.Detail{Key: "Instance", Value: chosen.Instance},
			ui.Detail{Key: "Backend", Value: chosen.BaseURL()},
		)
		return nil
	})
}

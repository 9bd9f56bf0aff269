// Package fetch drives the DTEK shutdowns page with a headless browser and
// turns the schedule grid into outage slots. The page is a form with three
// chained autocomplete fields; schedules render only after a known address
// has been picked from every dropdown.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/config"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/clock"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
	"github.com/AIckathon-2025-08/blackout-tracker-mcp/infra/logger"
)

var (
	// ErrPageLoad means the shutdowns page could not be loaded or driven.
	ErrPageLoad = errors.New("shutdowns page load failed")
	// ErrAddressNotFound means the address form offered no suggestion for
	// one of the address parts.
	ErrAddressNotFound = errors.New("address not found")
)

const (
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36"

	cityInput   = "#city"
	streetInput = "#street"
	houseInput  = "#house_num"

	cityList   = "#cityautocomplete-list"
	streetList = "#streetautocomplete-list"
	houseList  = "#house_numautocomplete-list"

	actualTable = "div.discon-fact-table.active"
	weeklyTable = "div.discon-schedule-table"

	gotoTimeoutMS    = 30000
	suggestTimeoutMS = 10000
	closeTimeoutMS   = 5000
	settleTimeoutMS  = 15000
)

// labelColumns is how many leading label cells each schedule row carries
// before the hourly cells start.
const labelColumns = 2

// PlaywrightFetcher loads the shutdowns page in Chromium and scrapes both
// schedule tables for one address.
type PlaywrightFetcher struct {
	cfg   config.FetcherConfig
	clock clock.Clock
	log   logger.Logger
}

// NewPlaywrightFetcher builds a fetcher. Each FetchSchedule call launches a
// fresh browser so no session state leaks between fetches.
func NewPlaywrightFetcher(cfg config.FetcherConfig, clk clock.Clock) *PlaywrightFetcher {
	return &PlaywrightFetcher{cfg: cfg, clock: clk, log: logger.New("dtek-fetcher")}
}

// FetchSchedule drives the address form and scrapes the actual and weekly
// tables. An address the form does not know yields ErrAddressNotFound.
func (f *PlaywrightFetcher) FetchSchedule(ctx context.Context, addr model.Address) (model.ScheduleSnapshot, error) {
	if err := addr.Validate(); err != nil {
		return model.ScheduleSnapshot{}, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return model.ScheduleSnapshot{}, fmt.Errorf("start playwright: %w", err)
	}
	defer func() { _ = pw.Stop() }()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(!f.cfg.Headful),
		SlowMo:   playwright.Float(100),
	})
	if err != nil {
		return model.ScheduleSnapshot{}, fmt.Errorf("launch browser: %w", err)
	}
	defer func() { _ = browser.Close() }()

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:  playwright.String(userAgent),
		Locale:     playwright.String("uk-UA"),
		TimezoneId: playwright.String("Europe/Kiev"),
		ExtraHttpHeaders: map[string]string{
			"Accept-Language": "uk-UA,uk;q=0.9",
		},
	})
	if err != nil {
		return model.ScheduleSnapshot{}, fmt.Errorf("create browser context: %w", err)
	}
	defer func() { _ = bctx.Close() }()

	page, err := bctx.NewPage()
	if err != nil {
		return model.ScheduleSnapshot{}, fmt.Errorf("create page: %w", err)
	}
	defer func() { _ = page.Close() }()

	if _, err := page.Goto(f.cfg.PageURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(gotoTimeoutMS),
	}); err != nil {
		return model.ScheduleSnapshot{}, fmt.Errorf("%w: goto %s: %v", ErrPageLoad, f.cfg.PageURL, err)
	}

	f.dismissModal(page)

	if err := ctx.Err(); err != nil {
		return model.ScheduleSnapshot{}, err
	}

	form := []struct {
		input, list, value string
	}{
		{cityInput, cityList, addr.City},
		{streetInput, streetList, addr.Street},
		{houseInput, houseList, addr.HouseNumber},
	}
	for _, step := range form {
		if err := f.fillAutocomplete(page, step.input, step.list, step.value); err != nil {
			return model.ScheduleSnapshot{}, err
		}
		if err := ctx.Err(); err != nil {
			return model.ScheduleSnapshot{}, err
		}
	}

	// The weekly forecast renders for every known address; waiting on it is
	// the signal that the schedule request finished. The actual table may
	// legitimately stay absent when nothing is planned.
	if err := page.Locator(weeklyTable).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(settleTimeoutMS),
	}); err != nil {
		f.log.Warnf("weekly table did not render: %v", err)
	}

	now := f.clock.Now()
	actual, err := f.scrapeActual(page, now)
	if err != nil {
		return model.ScheduleSnapshot{}, err
	}
	weekly, err := f.scrapeWeekly(page)
	if err != nil {
		return model.ScheduleSnapshot{}, err
	}

	f.log.Infof("fetched %d actual and %d weekly slots for %s", len(actual), len(weekly), addr)
	return model.ScheduleSnapshot{Actual: actual, PossibleWeek: weekly, FetchedAt: now}, nil
}

// dismissModal closes the attention popup that covers the form on load.
// Absence of the popup is not an error.
func (f *PlaywrightFetcher) dismissModal(page playwright.Page) {
	selectors := []string{
		"#modal-attention.is-open button.modal__close",
		"button.modal__close",
		`button[aria-label*="акрити"]`,
		`button[aria-label*="lose"]`,
	}
	for _, sel := range selectors {
		loc := page.Locator(sel).First()
		if visible, err := loc.IsVisible(); err == nil && visible {
			if err := loc.Click(); err == nil {
				return
			}
		}
	}
	if err := page.Keyboard().Press("Escape"); err != nil {
		f.log.Debugf("modal escape press failed: %v", err)
	}
}

// fillAutocomplete types value into one address field and picks the first
// suggestion. Each field unlocks the next only after its dropdown closes.
func (f *PlaywrightFetcher) fillAutocomplete(page playwright.Page, inputSel, listSel, value string) error {
	input := page.Locator(inputSel)
	if err := input.Click(); err != nil {
		return fmt.Errorf("%w: focus %s: %v", ErrPageLoad, inputSel, err)
	}
	if err := input.Fill(value); err != nil {
		return fmt.Errorf("%w: fill %s: %v", ErrPageLoad, inputSel, err)
	}

	first := page.Locator(listSel + " > div").First()
	if err := first.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(suggestTimeoutMS),
	}); err != nil {
		return fmt.Errorf("%w: no suggestions for %q", ErrAddressNotFound, value)
	}
	if err := first.Click(); err != nil {
		return fmt.Errorf("%w: select %q: %v", ErrPageLoad, value, err)
	}

	if err := page.Locator(listSel).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: playwright.Float(closeTimeoutMS),
	}); err != nil {
		return fmt.Errorf("%w: dropdown %s did not close: %v", ErrPageLoad, listSel, err)
	}
	return nil
}

// scrapeActual reads the today/tomorrow table. A missing table means no
// planned outages and yields no slots.
func (f *PlaywrightFetcher) scrapeActual(page playwright.Page, now time.Time) ([]model.OutageSlot, error) {
	root := page.Locator(actualTable)
	n, err := root.Count()
	if err != nil {
		return nil, fmt.Errorf("%w: locate actual table: %v", ErrPageLoad, err)
	}
	if n == 0 {
		f.log.Infof("no actual schedule table on page")
		return nil, nil
	}

	date, dayOfWeek := f.activeDateTab(page, now)

	headers, err := root.Locator("thead tr th").AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("%w: read actual header: %v", ErrPageLoad, err)
	}
	classes, err := cellClasses(root.Locator("tbody tr").First().Locator("td"))
	if err != nil {
		return nil, fmt.Errorf("%w: read actual row: %v", ErrPageLoad, err)
	}
	if len(headers) <= labelColumns || len(classes) <= labelColumns {
		return nil, nil
	}
	return gridSlots(model.KindActual, dayOfWeek, date, headers[labelColumns:], classes[labelColumns:]), nil
}

// activeDateTab reads the selected tab above the actual table. The tab label
// says "сьогодні" or "завтра" and a nested span carries the date.
func (f *PlaywrightFetcher) activeDateTab(page playwright.Page, now time.Time) (date, dayOfWeek string) {
	tab := page.Locator("div.dates div.active").First()
	if n, err := tab.Count(); err != nil || n == 0 {
		f.log.Warnf("no active date tab; slots will carry no date")
		return "", ""
	}
	if text, err := tab.Locator(`span[rel="date"]`).First().TextContent(); err == nil {
		date = strings.TrimSpace(text)
	}
	if label, err := tab.TextContent(); err == nil {
		dayOfWeek = resolveDayLabel(label, now)
	}
	return date, dayOfWeek
}

// scrapeWeekly reads the seven-day forecast table, one row per day.
func (f *PlaywrightFetcher) scrapeWeekly(page playwright.Page) ([]model.OutageSlot, error) {
	root := page.Locator(weeklyTable)
	n, err := root.Count()
	if err != nil {
		return nil, fmt.Errorf("%w: locate weekly table: %v", ErrPageLoad, err)
	}
	if n == 0 {
		f.log.Infof("no weekly schedule table on page")
		return nil, nil
	}

	headers, err := root.Locator("thead tr th").AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("%w: read weekly header: %v", ErrPageLoad, err)
	}
	if len(headers) <= labelColumns {
		return nil, nil
	}
	hourHeaders := headers[labelColumns:]

	rows, err := root.Locator("tbody tr").All()
	if err != nil {
		return nil, fmt.Errorf("%w: read weekly rows: %v", ErrPageLoad, err)
	}

	var slots []model.OutageSlot
	for _, row := range rows {
		tds, err := row.Locator("td").All()
		if err != nil || len(tds) < 3 {
			continue
		}
		dayText, err := tds[0].TextContent()
		if err != nil {
			continue
		}
		day, ok := dayNameInText(dayText)
		if !ok {
			continue
		}
		classes := make([]string, 0, len(tds)-1)
		for _, td := range tds[1:] {
			cls, err := td.GetAttribute("class")
			if err != nil {
				cls = ""
			}
			classes = append(classes, cls)
		}
		slots = append(slots, gridSlots(model.KindPossibleWeek, day, "", hourHeaders, classes)...)
	}
	return slots, nil
}

func cellClasses(cells playwright.Locator) ([]string, error) {
	all, err := cells.All()
	if err != nil {
		return nil, err
	}
	classes := make([]string, 0, len(all))
	for _, c := range all {
		cls, err := c.GetAttribute("class")
		if err != nil {
			cls = ""
		}
		classes = append(classes, cls)
	}
	return classes, nil
}

package emit

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/awesome-gocui/gocui"
	. "github.com/logrusorgru/aurora"

	"github.com/regentag/go1090/internal/modes"
)

// trackEntry is what the interactive view remembers about one ICAO
// address: how often it has been seen and when, and a coarse
// breakdown of which of the F polyphase branches decoded it. No
// position, velocity or identification payload is decoded; the table
// is a tally, not an aircraft list.
type trackEntry struct {
	Count     int
	LastSeen  time.Time
	PhaseSeen map[int]int
}

// Tracker accumulates per-ICAO tallies from the decode stream. Its
// Observe method has the receiver.Emit signature, so it can be handed
// straight to a Processor as OnDecode.
type Tracker struct {
	entries map[uint32]*trackEntry
}

// NewTracker builds an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{entries: make(map[uint32]*trackEntry)}
}

// Observe records one accepted decode.
func (t *Tracker) Observe(sampleIndex uint64, phasePct int, res modes.Result) {
	e, ok := t.entries[res.ICAO]
	if !ok {
		e = &trackEntry{PhaseSeen: make(map[int]int)}
		t.entries[res.ICAO] = e
	}
	e.Count++
	e.LastSeen = time.Now()
	e.PhaseSeen[phasePct]++
}

// snapshot returns the tracked addresses sorted ascending, for stable
// table rendering between redraws.
func (t *Tracker) snapshot() []uint32 {
	addrs := make([]uint32, 0, len(t.entries))
	for addr := range t.entries {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

// InteractiveView renders Tracker's contents in a gocui table,
// refreshed once a second, in a status+list layout.
type InteractiveView struct {
	g       *gocui.Gui
	tracker *Tracker
}

// NewInteractiveView builds the gocui Gui and its key bindings. The
// caller must run Tracker.Observe (directly or via a Processor) and
// call Run to start the redraw loop and block until the user quits.
func NewInteractiveView(tracker *Tracker) (*InteractiveView, error) {
	g, err := gocui.NewGui(gocui.OutputNormal, false)
	if err != nil {
		return nil, fmt.Errorf("emit: init gocui: %w", err)
	}

	v := &InteractiveView{g: g, tracker: tracker}
	g.SetManagerFunc(v.layout)

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		g.Close()
		return nil, fmt.Errorf("emit: bind quit key: %w", err)
	}
	return v, nil
}

// Run starts the redraw ticker and blocks in the gocui main loop until
// the user quits (Ctrl-C) or an unrecoverable gocui error occurs.
func (v *InteractiveView) Run() error {
	defer v.g.Close()

	go func() {
		for range time.Tick(time.Second) {
			v.g.Update(v.redraw)
		}
	}()

	if err := v.g.MainLoop(); err != nil && !gocui.IsQuit(err) {
		return fmt.Errorf("emit: gocui main loop: %w", err)
	}
	return nil
}

func (v *InteractiveView) layout(g *gocui.Gui) error {
	const maxX = 80
	_, maxY := g.Size()

	status, err := g.SetView("status", 0, 0, maxX-2, 2, 0)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	fmt.Fprintln(status, " TRACKED: --  LAST UPDATE: 0000-00-00 00:00:00")

	list, err := g.SetView("list", 0, 3, maxX-2, maxY-1, 0)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	list.Title = " ICAO ADDRESSES "
	return nil
}

func (v *InteractiveView) redraw(g *gocui.Gui) error {
	status, err := g.View("status")
	if err != nil {
		return nil
	}
	status.Clear()
	fmt.Fprintf(status, " TRACKED: %02d  LAST UPDATE: %s\n",
		Green(len(v.tracker.entries)),
		Bold(Green(time.Now().Format("2006-01-02 15:04:05"))))

	list, err := g.View("list")
	if err != nil {
		return nil
	}
	list.Clear()
	fmt.Fprintln(list, " ICAO ADDR   MESSAGES   LAST SEEN   PHASES")
	fmt.Fprintln(list, " =================================================")
	for _, addr := range v.tracker.snapshot() {
		e := v.tracker.entries[addr]
		fmt.Fprintln(list, Sprintf(Yellow(" %06x      %6d     %s    %s"),
			addr, e.Count, e.LastSeen.Format("15:04:05"), phaseHistogram(e.PhaseSeen)))
	}
	return nil
}

// phaseHistogram renders a compact "pct:count" summary of which
// polyphase branches decoded this address, ascending by phase
// percentage.
func phaseHistogram(seen map[int]int) string {
	pcts := make([]int, 0, len(seen))
	for pct := range seen {
		pcts = append(pcts, pct)
	}
	sort.Ints(pcts)

	s := ""
	for i, pct := range pcts {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%d:%d", pct, seen[pct])
	}
	return s
}

// quit ends the whole process: the interactive view owns the terminal
// for as long as the process runs, so closing it is closing go1090.
func quit(g *gocui.Gui, view *gocui.View) error {
	os.Exit(0)
	return nil
}

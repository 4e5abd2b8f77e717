package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"irrigation_panel/internal/logger"
	"irrigation_panel/internal/models"

	"github.com/sourcegraph/conc"
)

// Page names.
const (
	PageManual        = "manual"
	PageViewPrograms  = "view_programs"
	PageSettings      = "settings"
	PageLogs          = "logs"
	PageCreateProgram = "create_program"
	PageModifyProgram = "modify_program"
)

// pageInit fetches what a page needs with ctx and starts its pollers on wg
// with pollCtx. Pollers must return once pollCtx is canceled.
type pageInit func(ctx, pollCtx context.Context, wg *conc.WaitGroup) error

// PageService tracks the page on screen and owns its background pollers.
type PageService struct {
	notifier Notifier
	log      *logger.Logger
	pages    map[string]pageInit

	loading atomic.Bool

	mu      sync.Mutex
	base    context.Context
	current string
	editID  string
	cancel  context.CancelFunc
	wg      *conc.WaitGroup
}

func NewPageService(zones Zones, programs Programs, connection Connection, notifier Notifier, log *logger.Logger) *PageService {
	if log == nil {
		log = logger.Nop()
	}
	noop := func(context.Context, context.Context, *conc.WaitGroup) error { return nil }
	return &PageService{
		notifier: notifier,
		log:      log,
		base:     context.Background(),
		pages: map[string]pageInit{
			PageManual: func(ctx, pollCtx context.Context, wg *conc.WaitGroup) error {
				if err := zones.LoadSettings(ctx); err != nil {
					return err
				}
				wg.Go(func() { zones.PollZones(pollCtx) })
				return nil
			},
			PageViewPrograms: func(ctx, pollCtx context.Context, wg *conc.WaitGroup) error {
				if err := programs.LoadPrograms(ctx); err != nil {
					return err
				}
				wg.Go(func() { programs.PollPrograms(pollCtx) })
				return nil
			},
			PageSettings: func(_, pollCtx context.Context, wg *conc.WaitGroup) error {
				wg.Go(func() { connection.PollConnection(pollCtx) })
				return nil
			},
			PageLogs:          noop,
			PageCreateProgram: noop,
			PageModifyProgram: noop,
		},
	}
}

// Bind sets the context page pollers derive from. Canceling it stops them.
func (s *PageService) Bind(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = ctx
}

// LoadPage stops the current page's pollers and starts the ones of name.
// Only one load runs at a time.
func (s *PageService) LoadPage(ctx context.Context, name string) error {
	start, ok := s.pages[name]
	if !ok {
		s.notifier.Show(fmt.Sprintf("Page %q not found", name), models.ToastError, 0)
		return fmt.Errorf("%w: %s", ErrUnknownPage, name)
	}
	if !s.loading.CompareAndSwap(false, true) {
		return ErrPageLoading
	}
	defer s.loading.Store(false)

	s.ClosePage()

	s.mu.Lock()
	if name != PageModifyProgram {
		s.editID = ""
	}
	pollCtx, cancel := context.WithCancel(s.base)
	wg := &conc.WaitGroup{}
	s.current = name
	s.cancel = cancel
	s.wg = wg
	s.mu.Unlock()

	if err := start(ctx, pollCtx, wg); err != nil {
		s.log.Errorw("page_load_failed", "page", name, "err", err)
		return fmt.Errorf("load page %s: %w", name, err)
	}
	s.log.Infow("page_loaded", "page", name)
	return nil
}

// EditProgram opens the modify page for programID.
func (s *PageService) EditProgram(ctx context.Context, programID string) error {
	s.mu.Lock()
	s.editID = programID
	s.mu.Unlock()
	return s.LoadPage(ctx, PageModifyProgram)
}

func (s *PageService) CurrentPage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *PageService) EditProgramID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editID
}

// ClosePage cancels the current page's pollers and waits for them to return.
func (s *PageService) ClosePage() {
	s.mu.Lock()
	cancel, wg := s.cancel, s.wg
	s.cancel, s.wg = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	wg.Wait()
}

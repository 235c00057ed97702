package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/foxseedlab/kikitori/internal/audio"
	"github.com/foxseedlab/kikitori/internal/config"
	"github.com/foxseedlab/kikitori/internal/discord"
	"github.com/foxseedlab/kikitori/internal/repository"
	"github.com/foxseedlab/kikitori/internal/stream"
	"github.com/foxseedlab/kikitori/internal/summarizer"
	"github.com/foxseedlab/kikitori/internal/transcript"
	"github.com/foxseedlab/kikitori/internal/webhook"
	"github.com/google/uuid"
)

const defaultChunkInterval = 250 * time.Millisecond

type StartRequest struct {
	DeviceID       string
	SourceLanguage string
	TargetLanguage string
}

type Controller struct {
	cfg        *config.Config
	capturer   audio.Capturer
	newEncoder audio.EncoderFactory
	dialer     stream.Dialer
	requester  summarizer.Requester
	repo       repository.Repository
	webhook    webhook.Sender
	discord    discord.Client

	now           func() time.Time
	chunkInterval time.Duration

	mu                sync.Mutex
	state             State
	active            *activeSession
	stopped           *transcript.Aggregator
	summariesInFlight int
	observer          Observer
	pending           []func()
	lastReport        []byte
}

type activeSession struct {
	id             uuid.UUID
	deviceID       string
	sourceLanguage string
	targetLanguage string
	startedAt      time.Time

	capture    audio.Stream
	encoder    audio.Encoder
	conn       stream.Conn
	aggregator *transcript.Aggregator
	cancelPump context.CancelFunc
	finals     []finalRecord
}

func NewController(cfg *config.Config, capturer audio.Capturer, newEncoder audio.EncoderFactory, dialer stream.Dialer, requester summarizer.Requester, repo repository.Repository, wh webhook.Sender, dc discord.Client) *Controller {
	return &Controller{
		cfg:           cfg,
		capturer:      capturer,
		newEncoder:    newEncoder,
		dialer:        dialer,
		requester:     requester,
		repo:          repo,
		webhook:       wh,
		discord:       dc,
		now:           time.Now,
		chunkInterval: defaultChunkInterval,
		state:         StateIdle,
		observer:      NopObserver{},
	}
}

func (c *Controller) SetObserver(obs Observer) {
	if obs == nil {
		obs = NopObserver{}
	}
	c.mu.Lock()
	c.observer = obs
	c.mu.Unlock()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Preview() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return transcript.IdlePreview
	}
	return c.active.aggregator.Preview()
}

// Original returns the accumulated original transcript. After a stop it keeps
// returning the stopped session's buffer until the next StartSession.
func (c *Controller) Original() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a := c.bufferLocked(); a != nil {
		return a.Original()
	}
	return ""
}

func (c *Controller) Translated() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a := c.bufferLocked(); a != nil {
		return a.Translated()
	}
	return ""
}

func (c *Controller) bufferLocked() *transcript.Aggregator {
	if c.active != nil {
		return c.active.aggregator
	}
	return c.stopped
}

// LastReport returns the plain-text report of the most recently summarized
// live session, or nil.
func (c *Controller) LastReport() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastReport
}

func (c *Controller) queueLocked(fn func()) {
	c.pending = append(c.pending, fn)
}

// unlockAndNotify releases c.mu and then runs queued observer callbacks.
func (c *Controller) unlockAndNotify() {
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

func (c *Controller) resolveLanguage(code, fallback string) (string, error) {
	if code == "" {
		code = fallback
	}
	if !config.IsSupportedLanguage(code) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	return code, nil
}

// StartSession opens the capture device and the stream connection. It
// returns once the session is streaming, or with a *Failure after the
// controller has passed through Failed back to Idle.
func (c *Controller) StartSession(ctx context.Context, req StartRequest) error {
	src, err := c.resolveLanguage(req.SourceLanguage, c.cfg.DefaultSourceLanguage)
	if err != nil {
		return err
	}
	tgt, err := c.resolveLanguage(req.TargetLanguage, c.cfg.DefaultTargetLanguage)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrSessionActive
	}
	s := &activeSession{
		id:             uuid.New(),
		deviceID:       req.DeviceID,
		sourceLanguage: src,
		targetLanguage: tgt,
		startedAt:      c.now(),
		aggregator:     transcript.NewAggregator(),
	}
	c.active = s
	c.stopped = nil
	c.transitionLocked(StateConnecting)
	obs := c.observer
	c.queueLocked(func() { obs.OnStatus(messageConnecting) })
	c.unlockAndNotify()

	slog.Info("starting session", "session_id", s.id.String(), "device_id", req.DeviceID, "source_language", src, "target_language", tgt)

	deviceID, err := c.resolveDevice(ctx, req.DeviceID)
	if err != nil {
		return c.failStart(s, FailureConnection, messageNoDevice, err)
	}
	s.deviceID = deviceID

	if _, err := c.repo.CreateSession(ctx, repository.CreateSessionInput{
		ID:             s.id.String(),
		DeviceID:       deviceID,
		SourceLanguage: src,
		TargetLanguage: tgt,
		StartedAt:      s.startedAt,
	}); err != nil {
		slog.Error("failed to create session record", "error", err, "session_id", s.id.String())
	}

	capture, err := c.capturer.Open(ctx, deviceID)
	if err != nil {
		if errors.Is(err, audio.ErrPermissionDenied) {
			return c.failStart(s, FailurePermissionDenied, messageMicDenied, err)
		}
		return c.failStart(s, FailureConnection, messageMicFailed, err)
	}
	s.capture = capture

	encoder, err := c.newEncoder()
	if err != nil {
		return c.failStart(s, FailureConnection, messageEncoderFailed, err)
	}
	s.encoder = encoder

	conn, err := c.dialer.Dial(ctx, c.cfg.StreamURL(src, tgt), &sessionHandler{controller: c, session: s})
	if err != nil {
		return c.failStart(s, FailureConnection, messageStreamFailed, err)
	}

	c.mu.Lock()
	if c.active != s || c.state != StateConnecting {
		// The connection dropped before it was handed over; OnDisconnect
		// already failed the session.
		c.mu.Unlock()
		_ = conn.Close()
		return &Failure{Kind: FailureConnection, Message: messageDisconnected}
	}
	s.conn = conn
	pumpCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelPump = cancel
	c.transitionLocked(StateStreaming)
	obs = c.observer
	c.queueLocked(func() { obs.OnStatus(messageConnected) })
	c.unlockAndNotify()

	slog.Info("session streaming", "session_id", s.id.String(), "device_id", deviceID)
	go c.pump(pumpCtx, s)
	return nil
}

func (c *Controller) resolveDevice(ctx context.Context, deviceID string) (string, error) {
	if deviceID != "" {
		return deviceID, nil
	}
	devices, err := c.capturer.ListDevices(ctx)
	if err != nil {
		return "", err
	}
	if len(devices) == 0 {
		return "", audio.ErrDeviceNotFound
	}
	return devices[0].ID, nil
}

// failStart fails a session that is still connecting.
func (c *Controller) failStart(s *activeSession, kind FailureKind, message string, err error) error {
	f := &Failure{Kind: kind, Message: message, Err: err}
	c.mu.Lock()
	if c.active == s {
		c.failLocked(s, f)
	}
	c.unlockAndNotify()
	slog.Warn("session failed to start", "session_id", s.id.String(), "kind", string(kind), "error", err)
	c.markEnded(s, repository.SessionStatusFailed)
	return f
}

// failLocked moves the current session through Failed to Idle and releases
// its resources. c.mu must be held and s must be current.
func (c *Controller) failLocked(s *activeSession, f *Failure) {
	c.transitionLocked(StateFailed)
	c.releaseLocked(s)
	c.active = nil
	obs := c.observer
	c.queueLocked(func() { obs.OnFailure(f) })
	c.transitionLocked(StateIdle)
}

// releaseLocked stops the pump and closes the device and connection. The
// encoder belongs to the pump once it has started.
func (c *Controller) releaseLocked(s *activeSession) {
	if s.cancelPump != nil {
		s.cancelPump()
	} else if s.encoder != nil {
		s.encoder.Close()
	}
	if s.capture != nil {
		if err := s.capture.Close(); err != nil {
			slog.Warn("failed to release capture device", "error", err, "session_id", s.id.String())
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			slog.Debug("stream close returned error", "error", err, "session_id", s.id.String())
		}
	}
}

func (c *Controller) pump(ctx context.Context, s *activeSession) {
	ticker := time.NewTicker(c.chunkInterval)
	defer ticker.Stop()
	defer s.encoder.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pcm, err := s.capture.Drain()
			if errors.Is(err, io.EOF) {
				slog.Info("capture source ended", "session_id", s.id.String())
				return
			}
			if err != nil {
				slog.Error("capture device failed; no further audio will be sent", "error", err, "session_id", s.id.String())
				return
			}
			if len(pcm) == 0 {
				continue
			}
			chunk, err := s.encoder.Encode(pcm)
			if err != nil {
				slog.Warn("failed to encode audio chunk", "error", err, "session_id", s.id.String())
				continue
			}
			c.forwardChunk(s, chunk)
		}
	}
}

// forwardChunk sends one chunk if s is still the streaming session.
// Chunks are dropped otherwise, never queued.
func (c *Controller) forwardChunk(s *activeSession, chunk []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != s || c.state != StateStreaming || len(chunk) == 0 {
		return
	}
	if err := s.conn.SendChunk(chunk); err != nil {
		slog.Warn("failed to send audio chunk", "error", err, "session_id", s.id.String(), "bytes", len(chunk))
		return
	}
	slog.Debug("sent audio chunk", "session_id", s.id.String(), "bytes", len(chunk))
}

// StopSession halts capture, closes the connection and starts summarizing
// the original transcript as it stood at this call. The returned channel
// yields exactly one terminal result.
func (c *Controller) StopSession(ctx context.Context) (<-chan summarizer.Result, error) {
	c.mu.Lock()
	if c.state != StateStreaming {
		c.mu.Unlock()
		return nil, ErrNotStreaming
	}
	s := c.active
	c.transitionLocked(StateStopping)
	endedAt := c.now()
	rep := sessionReport{
		sessionID:      s.id.String(),
		deviceID:       s.deviceID,
		sourceLanguage: s.sourceLanguage,
		targetLanguage: s.targetLanguage,
		startedAt:      s.startedAt,
		endedAt:        endedAt,
		finals:         append([]finalRecord(nil), s.finals...),
		original:       s.aggregator.Original(),
		translated:     s.aggregator.Translated(),
	}
	c.releaseLocked(s)
	c.active = nil
	c.stopped = s.aggregator
	c.transitionLocked(StateSummarizing)
	c.summariesInFlight++
	obs := c.observer
	c.queueLocked(func() {
		obs.OnStatus(messageStopped)
		obs.OnSummaryPending(summarizer.SourceLiveSession, messagePendingLive)
	})
	c.unlockAndNotify()

	slog.Info("session stopped", "session_id", rep.sessionID, "segment_count", s.aggregator.FinalCount())
	c.markEnded(s, repository.SessionStatusCompleted)

	results := make(chan summarizer.Result, 1)
	detached := context.WithoutCancel(ctx)
	go func() {
		defer close(results)
		res := c.summarizeText(detached, rep.original, rep.targetLanguage)

		c.mu.Lock()
		c.summariesInFlight--
		c.lastReport = buildReportText(rep, c.cfg.TranscriptTimezone, c.cfg.Location(), res)
		c.transitionLocked(StateIdle)
		obs := c.observer
		c.queueLocked(func() { obs.OnSummary(res) })
		c.unlockAndNotify()

		c.recordLiveSummary(detached, rep, res)
		results <- res
	}()
	return results, nil
}

func (c *Controller) summarizeText(ctx context.Context, text, targetLanguage string) summarizer.Result {
	if strings.TrimSpace(text) == "" {
		return summarizer.Result{
			Text:       messageNoSpeech,
			SourceKind: summarizer.SourceLiveSession,
			Status:     summarizer.StatusReady,
		}
	}
	return c.requester.SummarizeText(ctx, text, targetLanguage)
}

// SummarizeFile uploads media for a one-shot summary. It bypasses the live
// state machine but shares the in-flight guard.
func (c *Controller) SummarizeFile(ctx context.Context, media summarizer.Media, targetLanguage string) (summarizer.Result, error) {
	tgt, err := c.resolveLanguage(targetLanguage, c.cfg.DefaultTargetLanguage)
	if err != nil {
		return summarizer.Result{}, err
	}
	if err := c.beginStandalone(summarizer.SourceUploadedFile, messagePendingFile); err != nil {
		return summarizer.Result{}, err
	}
	slog.Info("summarizing file", "filename", media.Filename, "kind", string(media.Kind), "bytes", len(media.Data), "target_language", tgt)
	res := c.requester.SummarizeMedia(ctx, media, tgt)
	c.endStandalone(res)
	c.recordStandaloneSummary(context.WithoutCancel(ctx), tgt, media.Filename, res)
	return res, nil
}

// SummarizeTranscript summarizes arbitrary text, with the same empty-text
// short-circuit as live sessions.
func (c *Controller) SummarizeTranscript(ctx context.Context, text, targetLanguage string) (summarizer.Result, error) {
	tgt, err := c.resolveLanguage(targetLanguage, c.cfg.DefaultTargetLanguage)
	if err != nil {
		return summarizer.Result{}, err
	}
	if err := c.beginStandalone(summarizer.SourceLiveSession, messagePendingText); err != nil {
		return summarizer.Result{}, err
	}
	res := c.summarizeText(ctx, text, tgt)
	c.endStandalone(res)
	c.recordStandaloneSummary(context.WithoutCancel(ctx), tgt, "", res)
	return res, nil
}

func (c *Controller) beginStandalone(kind summarizer.SourceKind, message string) error {
	c.mu.Lock()
	if c.summariesInFlight > 0 {
		c.mu.Unlock()
		return ErrSummaryInFlight
	}
	c.summariesInFlight++
	obs := c.observer
	c.queueLocked(func() { obs.OnSummaryPending(kind, message) })
	c.unlockAndNotify()
	return nil
}

func (c *Controller) endStandalone(res summarizer.Result) {
	c.mu.Lock()
	c.summariesInFlight--
	obs := c.observer
	c.queueLocked(func() { obs.OnSummary(res) })
	c.unlockAndNotify()
}

type sessionHandler struct {
	controller *Controller
	session    *activeSession
}

func (h *sessionHandler) OnSegment(seg transcript.Segment) {
	h.controller.handleSegment(h.session, seg)
}

func (h *sessionHandler) OnDisconnect(err error) {
	h.controller.handleDisconnect(h.session, err)
}

func acceptsEvents(state State) bool {
	return state == StateConnecting || state == StateStreaming
}

func (c *Controller) handleSegment(s *activeSession, seg transcript.Segment) {
	c.mu.Lock()
	if c.active != s || !acceptsEvents(c.state) {
		c.mu.Unlock()
		slog.Debug("dropping segment outside of streaming", "session_id", s.id.String(), "seq", seg.Seq)
		return
	}
	if !s.aggregator.Apply(seg) {
		c.mu.Unlock()
		return
	}
	obs := c.observer
	var rec *finalRecord
	switch seg.Kind {
	case transcript.KindFinal:
		rec = &finalRecord{
			index:      len(s.finals),
			original:   seg.OriginalText,
			translated: seg.TranslatedText,
			spokenAt:   c.now(),
		}
		s.finals = append(s.finals, *rec)
		c.queueLocked(func() { obs.OnFinal(seg) })
	case transcript.KindInterim:
		text := seg.OriginalText
		c.queueLocked(func() { obs.OnPreview(text) })
	}
	c.unlockAndNotify()

	if rec == nil {
		return
	}
	if err := c.repo.InsertSegment(context.Background(), repository.InsertSegmentInput{
		SessionID:    s.id.String(),
		SegmentIndex: rec.index,
		Original:     rec.original,
		Translated:   rec.translated,
		SpokenAt:     rec.spokenAt,
	}); err != nil {
		slog.Error("failed to insert segment", "error", err, "session_id", s.id.String(), "segment_index", rec.index)
	}
}

func (c *Controller) handleDisconnect(s *activeSession, err error) {
	c.mu.Lock()
	if c.active != s || !acceptsEvents(c.state) {
		c.mu.Unlock()
		return
	}
	c.failLocked(s, &Failure{Kind: FailureConnection, Message: messageDisconnected, Err: err})
	c.unlockAndNotify()
	slog.Warn("stream disconnected unexpectedly", "error", err, "session_id", s.id.String())
	c.markEnded(s, repository.SessionStatusFailed)
}

func (c *Controller) markEnded(s *activeSession, status repository.SessionStatus) {
	if err := c.repo.UpdateSessionEnded(context.Background(), repository.EndSessionInput{
		SessionID: s.id.String(),
		EndedAt:   c.now(),
		Status:    status,
	}); err != nil {
		slog.Error("failed to update session record", "error", err, "session_id", s.id.String(), "status", string(status))
	}
}

func (c *Controller) recordLiveSummary(ctx context.Context, rep sessionReport, res summarizer.Result) {
	c.saveSummary(ctx, rep.sessionID, res)
	payload := buildSessionReportPayload(rep, c.cfg.TranscriptTimezone, c.cfg.Location(), res)
	if err := c.webhook.SendSessionReport(ctx, payload); err != nil {
		slog.Error("failed to send session report", "error", err, "session_id", rep.sessionID)
	}
	if !res.Ready() || !c.discord.Enabled() {
		return
	}
	if err := c.discord.SendChannelMessageWithFile(discord.FileMessage{
		ChannelID: c.cfg.DiscordSummaryChannelID,
		Content:   messageSummaryHeading + "\n" + res.Text,
		Filename:  fmt.Sprintf("transcript-%s.txt", rep.sessionID),
		FileBody:  buildReportText(rep, c.cfg.TranscriptTimezone, c.cfg.Location(), summarizer.Result{}),
	}); err != nil {
		slog.Error("failed to post summary to discord", "error", err, "session_id", rep.sessionID)
	}
}

func (c *Controller) recordStandaloneSummary(ctx context.Context, targetLanguage, filename string, res summarizer.Result) {
	c.saveSummary(ctx, "", res)
	payload := buildStandalonePayload(targetLanguage, c.cfg.TranscriptTimezone, res)
	if err := c.webhook.SendSessionReport(ctx, payload); err != nil {
		slog.Error("failed to send summary report", "error", err, "source_kind", string(res.SourceKind))
	}
	if !res.Ready() || !c.discord.Enabled() {
		return
	}
	heading := messageSummaryHeading
	if filename != "" {
		heading = fmt.Sprintf(messageFileHeading, filename)
	}
	if err := c.discord.SendChannelMessage(c.cfg.DiscordSummaryChannelID, heading+"\n"+res.Text); err != nil {
		slog.Error("failed to post summary to discord", "error", err, "source_kind", string(res.SourceKind))
	}
}

func (c *Controller) saveSummary(ctx context.Context, sessionID string, res summarizer.Result) {
	if err := c.repo.SaveSummary(ctx, repository.SaveSummaryInput{
		SessionID:  sessionID,
		SourceKind: string(res.SourceKind),
		Status:     string(res.Status),
		Text:       res.Text,
		CreatedAt:  c.now(),
	}); err != nil {
		slog.Error("failed to save summary", "error", err, "session_id", sessionID)
	}
}

package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/dotoole/photofolio-backend/pkg/config"
	"github.com/dotoole/photofolio-backend/pkg/metrics"
)

// State tracks where the pipeline is in its lifecycle.
type State string

const (
	StateIdle            State = "idle"
	StateSelected        State = "selected"
	StateExtractingExif  State = "extracting_exif"
	StateReady           State = "ready"
	StateCompressing     State = "compressing"
	StatePresigningFull  State = "presigning_full"
	StateUploadingFull   State = "uploading_full"
	StatePresigningThumb State = "presigning_thumb"
	StateUploadingThumb  State = "uploading_thumb"
	StateCommitting      State = "committing"
	StateDone            State = "done"
	StateFailed          State = "failed"
)

// User-facing status strings. These are part of the console contract.
const (
	StatusCompressing   = "Compressing..."
	StatusUploading     = "Uploading..."
	StatusPresignFailed = "Failed to get upload URL."
	StatusUploadFailed  = "Upload to R2 failed."
	StatusCommitFailed  = "Failed to save metadata."
	StatusComplete      = "Upload complete."
)

// ErrUploadInFlight is returned when Submit is called while a previous
// submission is still running.
var ErrUploadInFlight = errors.New("an upload is already in progress")

// ErrNoFileSelected is returned when Submit runs before Select.
var ErrNoFileSelected = errors.New("no file selected")

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeDegraded
	outcomeFatal
)

type stepResult struct {
	outcome outcome
	status  string
	err     error
}

// step is one named stage of the submission sequence. The sequence is plain
// data so the machine can be inspected and tested without a network.
type step struct {
	name  string
	state State
	run   func(ctx context.Context, a *attempt) stepResult
}

// attempt carries the working set of a single submission.
type attempt struct {
	full      *Variant
	thumb     *Variant
	fullCred  *Credential
	thumbCred *Credential
}

type backendClient interface {
	RequestCredential(ctx context.Context, fileName, contentType string) (*Credential, error)
	PutObject(ctx context.Context, uploadURL, contentType string, data []byte) error
	CommitRecord(ctx context.Context, input RecordInput) error
	ListImages(ctx context.Context) ([]ImageRecord, error)
}

// Form is the editable metadata shown next to the selected file. EXIF
// extraction pre-fills it; the user's edits win at commit time.
type Form struct {
	Title         string
	Description   string
	Tag           string
	Location      string
	Make          string
	Model         string
	Lens          string
	FNumber       string
	Exposure      string
	ISO           string
	Focal         string
	TakenAt       string
	Lat           string
	Lng           string
	Featured      bool
	Visibility    string
	AlbumPublicID string
}

// Pipeline orchestrates one upload at a time: derivation, presigned writes,
// and the metadata commit.
type Pipeline struct {
	mu sync.Mutex

	client  backendClient
	media   config.MediaConfig
	metrics *metrics.UploadMetrics

	busy     bool
	state    State
	status   string
	debug    []string
	fileName string
	fileData []byte
	preview  io.Closer
	form     Form
	images   []ImageRecord
}

// NewPipeline constructs an idle pipeline. Metrics may be nil.
func NewPipeline(client backendClient, media config.MediaConfig, m *metrics.UploadMetrics) (*Pipeline, error) {
	if client == nil {
		return nil, fmt.Errorf("backend client required")
	}
	return &Pipeline{client: client, media: media, metrics: m, state: StateIdle}, nil
}

// Select stages a file for upload. Any previously held preview handle is
// released, the debug log is cleared, and the form is re-seeded from the
// filename and whatever EXIF the file carries.
func (p *Pipeline) Select(name string, r io.ReadCloser) error {
	if r == nil {
		return fmt.Errorf("reader required")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		_ = r.Close()
		return fmt.Errorf("reading file: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.busy {
		_ = r.Close()
		return ErrUploadInFlight
	}

	p.releasePreviewLocked()
	p.preview = r
	p.fileName = name
	p.fileData = data
	p.debug = nil
	p.form = Form{Title: defaultTitle(name), Visibility: "public"}
	p.state = StateSelected
	p.status = ""
	p.appendDebugLocked(fmt.Sprintf("selected %s (%d bytes)", name, len(data)))

	p.state = StateExtractingExif
	if meta, exifErr := ExtractMetadata(bytes.NewReader(data)); exifErr != nil {
		p.appendDebugLocked("no exif metadata: " + exifErr.Error())
	} else {
		p.applyMetadataLocked(meta)
		p.appendDebugLocked("exif metadata extracted")
	}
	p.state = StateReady
	return nil
}

// Form returns a copy of the current form values.
func (p *Pipeline) Form() Form {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form
}

// SetForm replaces the editable form values before submission.
func (p *Pipeline) SetForm(form Form) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = form
}

// Status returns the latest user-facing status line.
func (p *Pipeline) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// DebugLog returns the ordered diagnostic lines for the current attempt.
func (p *Pipeline) DebugLog() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.debug))
	copy(out, p.debug)
	return out
}

// Images returns the listing fetched after the last completed upload.
func (p *Pipeline) Images() []ImageRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ImageRecord, len(p.images))
	copy(out, p.images)
	return out
}

// Close releases the held preview handle.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releasePreviewLocked()
	return nil
}

// Submit runs the upload sequence. It is not re-entrant: a second call while
// one is running fails fast, and the busy flag clears on every exit path so a
// failed attempt can be retried.
func (p *Pipeline) Submit(ctx context.Context) error {
	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		return ErrUploadInFlight
	}
	if len(p.fileData) == 0 {
		p.mu.Unlock()
		return ErrNoFileSelected
	}
	p.busy = true
	p.debug = nil
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.busy = false
		p.mu.Unlock()
	}()

	a := &attempt{}
	for _, s := range p.steps() {
		p.setState(s.state)

		start := time.Now()
		res := s.run(ctx, a)
		p.metrics.ObserveDuration(s.name, time.Since(start))

		switch res.outcome {
		case outcomeSuccess:
			p.metrics.IncSuccess(s.name)
		case outcomeDegraded:
			p.metrics.IncDegraded(s.name)
			if res.err != nil {
				p.appendDebug(fmt.Sprintf("%s degraded: %v", s.name, res.err))
			}
		case outcomeFatal:
			p.metrics.IncFailure(s.name)
			if res.err != nil {
				p.appendDebug(fmt.Sprintf("%s failed: %v", s.name, res.err))
			}
			p.mu.Lock()
			p.status = res.status
			p.state = StateFailed
			p.mu.Unlock()
			return res.err
		}
	}

	p.finish(ctx)
	return nil
}

func (p *Pipeline) steps() []step {
	return []step{
		{name: "derive", state: StateCompressing, run: p.stepDerive},
		{name: "presign_full", state: StatePresigningFull, run: p.stepPresignFull},
		{name: "upload_full", state: StateUploadingFull, run: p.stepUploadFull},
		{name: "presign_thumb", state: StatePresigningThumb, run: p.stepPresignThumb},
		{name: "upload_thumb", state: StateUploadingThumb, run: p.stepUploadThumb},
		{name: "commit", state: StateCommitting, run: p.stepCommit},
	}
}

// stepDerive never aborts: when derivation fails the original bytes are
// uploaded as-is and the thumbnail is skipped.
func (p *Pipeline) stepDerive(_ context.Context, a *attempt) stepResult {
	p.setStatus(StatusCompressing)

	data := p.fileBytes()
	full, thumb, err := DeriveVariants(data, p.media)
	if err != nil {
		a.full = &Variant{Data: data, ContentType: DetectContentType(data)}
		a.thumb = nil
		return stepResult{outcome: outcomeDegraded, err: fmt.Errorf("using original file: %w", err)}
	}
	a.full = full
	a.thumb = thumb
	p.appendDebug(fmt.Sprintf("derived full %d bytes, thumb %d bytes", len(full.Data), len(thumb.Data)))
	return stepResult{outcome: outcomeSuccess}
}

func (p *Pipeline) stepPresignFull(ctx context.Context, a *attempt) stepResult {
	p.setStatus(StatusUploading)

	cred, err := p.client.RequestCredential(ctx, p.name(), a.full.ContentType)
	if err != nil {
		return stepResult{outcome: outcomeFatal, status: presignFailureStatus(err), err: err}
	}
	a.fullCred = cred
	p.appendDebug("write credential issued for " + cred.Key)
	return stepResult{outcome: outcomeSuccess}
}

func (p *Pipeline) stepUploadFull(ctx context.Context, a *attempt) stepResult {
	if err := p.client.PutObject(ctx, a.fullCred.UploadURL, a.full.ContentType, a.full.Data); err != nil {
		return stepResult{outcome: outcomeFatal, status: StatusUploadFailed, err: err}
	}
	p.appendDebug(fmt.Sprintf("uploaded full variant (%d bytes)", len(a.full.Data)))
	return stepResult{outcome: outcomeSuccess}
}

// Thumbnail steps are degraded on failure: the record simply commits without
// a thumbnail.
func (p *Pipeline) stepPresignThumb(ctx context.Context, a *attempt) stepResult {
	if a.thumb == nil {
		return stepResult{outcome: outcomeDegraded, err: errors.New("no thumbnail derived")}
	}
	cred, err := p.client.RequestCredential(ctx, "thumb-"+p.name(), a.thumb.ContentType)
	if err != nil {
		a.thumb = nil
		return stepResult{outcome: outcomeDegraded, err: fmt.Errorf("thumbnail presign: %w", err)}
	}
	a.thumbCred = cred
	return stepResult{outcome: outcomeSuccess}
}

func (p *Pipeline) stepUploadThumb(ctx context.Context, a *attempt) stepResult {
	if a.thumb == nil || a.thumbCred == nil {
		return stepResult{outcome: outcomeDegraded, err: errors.New("skipping thumbnail upload")}
	}
	if err := p.client.PutObject(ctx, a.thumbCred.UploadURL, a.thumb.ContentType, a.thumb.Data); err != nil {
		a.thumb = nil
		a.thumbCred = nil
		return stepResult{outcome: outcomeDegraded, err: fmt.Errorf("thumbnail upload: %w", err)}
	}
	p.appendDebug(fmt.Sprintf("uploaded thumbnail (%d bytes)", len(a.thumb.Data)))
	return stepResult{outcome: outcomeSuccess}
}

func (p *Pipeline) stepCommit(ctx context.Context, a *attempt) stepResult {
	input := p.recordInput(a)
	if err := p.client.CommitRecord(ctx, input); err != nil {
		return stepResult{outcome: outcomeFatal, status: commitFailureStatus(err), err: err}
	}
	p.appendDebug("metadata committed for " + input.Key)
	return stepResult{outcome: outcomeSuccess}
}

func (p *Pipeline) finish(ctx context.Context) {
	images, err := p.client.ListImages(ctx)

	p.mu.Lock()
	p.status = StatusComplete
	p.state = StateDone
	p.form = Form{Visibility: "public"}
	p.fileName = ""
	p.fileData = nil
	p.releasePreviewLocked()
	if err != nil {
		p.appendDebugLocked("listing refresh failed: " + err.Error())
	} else {
		p.images = images
	}
	p.mu.Unlock()
}

func (p *Pipeline) recordInput(a *attempt) RecordInput {
	p.mu.Lock()
	form := p.form
	p.mu.Unlock()

	input := RecordInput{
		Key:           a.fullCred.Key,
		URL:           a.fullCred.PublicURL,
		Title:         form.Title,
		Description:   form.Description,
		Tag:           form.Tag,
		Location:      form.Location,
		ExifMake:      form.Make,
		ExifModel:     form.Model,
		ExifLens:      form.Lens,
		ExifFNumber:   form.FNumber,
		ExifExposure:  form.Exposure,
		ExifISO:       form.ISO,
		ExifFocal:     form.Focal,
		ExifTakenAt:   form.TakenAt,
		ExifLat:       form.Lat,
		ExifLng:       form.Lng,
		Featured:      form.Featured,
		Visibility:    form.Visibility,
		AlbumPublicID: form.AlbumPublicID,
	}
	if a.thumbCred != nil {
		input.ThumbKey = &a.thumbCred.Key
		input.ThumbURL = &a.thumbCred.PublicURL
	}
	return input
}

func (p *Pipeline) applyMetadataLocked(meta *Metadata) {
	p.form.Make = meta.Make
	p.form.Model = meta.Model
	p.form.Lens = meta.Lens
	p.form.FNumber = meta.FNumber
	p.form.Exposure = meta.Exposure
	p.form.ISO = meta.ISO
	p.form.Focal = meta.Focal
	p.form.TakenAt = meta.TakenAt
	p.form.Lat = meta.Lat
	p.form.Lng = meta.Lng
	if meta.Lat != "" && meta.Lng != "" {
		p.form.Location = meta.Lat + ", " + meta.Lng
	}
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *Pipeline) setStatus(s string) {
	p.mu.Lock()
	p.status = s
	p.mu.Unlock()
}

func (p *Pipeline) appendDebug(line string) {
	p.mu.Lock()
	p.appendDebugLocked(line)
	p.mu.Unlock()
}

func (p *Pipeline) appendDebugLocked(line string) {
	p.debug = append(p.debug, line)
}

func (p *Pipeline) releasePreviewLocked() {
	if p.preview != nil {
		_ = p.preview.Close()
		p.preview = nil
	}
}

func (p *Pipeline) fileBytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fileData
}

func (p *Pipeline) name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fileName
}

func presignFailureStatus(err error) string {
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	return StatusPresignFailed
}

func commitFailureStatus(err error) string {
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	return StatusCommitFailed
}

func defaultTitle(name string) string {
	base := path.Base(strings.TrimSpace(name))
	ext := path.Ext(base)
	return strings.TrimSuffix(base, ext)
}

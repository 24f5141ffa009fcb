package bizcard

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GeneratedResult struct {
	Number    int             `json:"number"`
	ID        string          `json:"id"`
	FilePath  string          `json:"filePath"`
	PageSize  PageDimensions  `json:"pageSize"`
	Placement PlacementResult `json:"placement"`
}

type CardGenerator struct {
	Cfg      *Config
	Settings Settings
	Template *Template
	Renderer *CardRenderer
	Resolver GeometryResolver
	Logger   *zap.SugaredLogger
}

func NewCardGenerator(cfg *Config, settings Settings, logger *zap.SugaredLogger) (*CardGenerator, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	spec, err := cfg.CardSpec()
	if err != nil {
		return nil, err
	}

	loader, err := NewFontLoader(cfg)
	if err != nil {
		return nil, err
	}

	template, err := NewTemplate(cfg.TemplatePath)
	if err != nil {
		return nil, err
	}

	return &CardGenerator{
		Cfg:      cfg,
		Settings: settings,
		Template: template,
		Renderer: NewCardRenderer(cfg, settings, loader),
		Resolver: NewGeometryResolver(spec, cfg.Thresholds),
		Logger:   logger,
	}, nil
}

func (cg *CardGenerator) OutputDir(id string) string {
	return filepath.Join(cg.Cfg.OutputDir, id)
}

// Placement is where the card lands on the current template page.
func (cg *CardGenerator) Placement() (PageDimensions, PlacementResult, error) {
	page := cg.Template.PageSize()
	placement, err := cg.placementFor(page)
	return page, placement, err
}

func (cg *CardGenerator) placementFor(page PageDimensions) (PlacementResult, error) {
	if err := ValidatePageGeometry(page.Width, page.Height); err != nil {
		return PlacementResult{}, err
	}
	return cg.Resolver.ResolvePlacement(page.Width, page.Height), nil
}

// Preview captures the card without touching the template.
func (cg *CardGenerator) Preview(card Card) (*Capture, error) {
	content, err := card.Content()
	if err != nil {
		return nil, err
	}
	return cg.Renderer.Capture(content)
}

// Generate renders the card, stamps it on the template and writes the PDF to
// its own output directory. Nothing is left in the output directory on failure.
func (cg *CardGenerator) Generate(ctx context.Context, card Card) (*GeneratedResult, error) {
	tmpDir, err := os.MkdirTemp(cg.Cfg.TmpDir, "bizcard_*")
	if err != nil {
		return nil, fmt.Errorf("failed to create tmp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	return cg.generate(ctx, card, 1, tmpDir)
}

func (cg *CardGenerator) generate(ctx context.Context, card Card, number int, tmpDir string) (*GeneratedResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.NewString()

	templateFile := filepath.Join(tmpDir, fmt.Sprintf("%s_template.pdf", id))
	page, err := cg.Template.WriteSnapshot(templateFile)
	if err != nil {
		return nil, err
	}

	placement, err := cg.placementFor(page)
	if err != nil {
		return nil, err
	}

	capture, err := cg.Preview(card)
	if err != nil {
		return nil, fmt.Errorf("failed to capture card: %w", err)
	}

	pngFile := filepath.Join(tmpDir, fmt.Sprintf("%s.png", id))
	// The file can be read by the owner (you), read by users in the file's group, and read by anyone else on the system
	if err := os.WriteFile(pngFile, capture.PNG, 0644); err != nil {
		return nil, fmt.Errorf("failed to write captured image: %w", err)
	}

	stamped := filepath.Join(tmpDir, fmt.Sprintf("%s.pdf", id))
	if err := StampImage(templateFile, stamped, pngFile, placement, capture.WidthPx); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outputFile, err := cg.publish(stamped, id)
	if err != nil {
		return nil, err
	}

	cg.Logger.Debugw("Card generated",
		"id", id,
		"page", page,
		"scaleFactor", placement.ScaleFactor,
		"offsetX", placement.OffsetX,
		"offsetY", placement.OffsetY,
	)

	return &GeneratedResult{
		Number:    number,
		ID:        id,
		FilePath:  outputFile,
		PageSize:  page,
		Placement: placement,
	}, nil
}

// publish moves a finished file into the output directory.
// Use copy instead of os.Rename to avoid invalid cross-device link, then rename inside the output dir.
func (cg *CardGenerator) publish(src, id string) (string, error) {
	outDir := cg.OutputDir(id)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	partial := filepath.Join(outDir, "."+cg.Cfg.OutFileName+".part")
	final := filepath.Join(outDir, cg.Cfg.OutFileName)

	if err := copyFile(src, partial); err != nil {
		os.RemoveAll(outDir)
		return "", fmt.Errorf("failed to copy generated card: %w", err)
	}

	if err := os.Rename(partial, final); err != nil {
		os.RemoveAll(outDir)
		return "", fmt.Errorf("failed to finalize generated card: %w", err)
	}

	return final, nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		return err
	}
	return destFile.Close()
}

type generationJob struct {
	index int
	card  Card
}

type generationResult struct {
	index  int
	result *GeneratedResult
	err    error
}

func calculateWorkerCount(jobCount int) int {
	return min(max(runtime.GOMAXPROCS(0)*2, 1), jobCount)
}

// GenerateBatch generates one PDF per card using a worker pool.
// Results keep the order of cards. If any card fails, every generated file is removed.
func (cg *CardGenerator) GenerateBatch(ctx context.Context, cards []Card) ([]GeneratedResult, error) {
	if len(cards) == 0 {
		return []GeneratedResult{}, nil
	}

	batchTmpDir, err := os.MkdirTemp(cg.Cfg.TmpDir, "bizcard_batch_*")
	if err != nil {
		return nil, fmt.Errorf("failed to create tmp directory: %w", err)
	}
	defer os.RemoveAll(batchTmpDir)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	maxWorkers := calculateWorkerCount(len(cards))
	cg.Logger.Debugf("Using %d workers for %d cards", maxWorkers, len(cards))

	jobs := make(chan generationJob)
	results := make(chan generationResult, len(cards))

	var wg sync.WaitGroup
	for w := range maxWorkers {
		wg.Add(1)
		go cg.processWorkerJobs(ctx, jobs, results, filepath.Join(batchTmpDir, fmt.Sprintf("worker-%d", w)), &wg)
	}

	go func() {
		defer close(jobs)
		for i, card := range cards {
			select {
			case jobs <- generationJob{index: i, card: card}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return cg.aggregateResults(ctx, results, len(cards), cancel)
}

func (cg *CardGenerator) processWorkerJobs(ctx context.Context, jobs <-chan generationJob, results chan<- generationResult, tmpDir string, wg *sync.WaitGroup) {
	defer wg.Done()

	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		for job := range jobs {
			results <- generationResult{index: job.index, err: fmt.Errorf("failed to create worker tmp dir: %w", err)}
		}
		return
	}
	defer os.RemoveAll(tmpDir)

	for job := range jobs {
		res, err := cg.generate(ctx, job.card, job.index+1, tmpDir)
		if err != nil {
			err = fmt.Errorf("failed to generate card for row %d: %w", job.index+1, err)
		}
		results <- generationResult{index: job.index, result: res, err: err}
	}
}

func (cg *CardGenerator) aggregateResults(ctx context.Context, results <-chan generationResult, totalCount int, cancel context.CancelFunc) ([]GeneratedResult, error) {
	resultMap := make(map[int]*GeneratedResult)
	var firstErr error

	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
				cancel()
			}
			continue
		}
		resultMap[r.index] = r.result
	}

	if firstErr == nil && len(resultMap) != totalCount {
		firstErr = ctx.Err()
		if firstErr == nil {
			firstErr = fmt.Errorf("generated %d of %d cards", len(resultMap), totalCount)
		}
	}

	if firstErr != nil {
		for _, r := range resultMap {
			os.RemoveAll(filepath.Dir(r.FilePath))
		}
		return nil, firstErr
	}

	generated := make([]GeneratedResult, 0, totalCount)
	for i := range totalCount {
		generated = append(generated, *resultMap[i])
	}

	return generated, nil
}

// Remove deletes the output directory of a generated card.
func (cg *CardGenerator) Remove(result GeneratedResult) error {
	return os.RemoveAll(cg.OutputDir(result.ID))
}

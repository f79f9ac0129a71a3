package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"time"
	"unicode"

	_ "image/jpeg"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"gorm.io/gorm"

	"github.com/moonquill/moonquill-backend/internal/domain"
	"github.com/moonquill/moonquill-backend/internal/platform/localmedia"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
)

const (
	coverWidth  = 600
	coverHeight = 800
)

// CoverService renders the placeholder cover a novel gets when the author
// uploads none, and normalizes uploaded cover images.
type CoverService interface {
	CreateDefaultCover(ctx context.Context, tx *gorm.DB, novel *domain.Novel) error
	CreateCoverFromImage(ctx context.Context, tx *gorm.DB, novel *domain.Novel, raw []byte) error
}

type coverService struct {
	db    *gorm.DB
	log   *logger.Logger
	media localmedia.Store

	palette  []color.NRGBA
	fontFace font.Face
}

func NewCoverService(db *gorm.DB, baseLog *logger.Logger, media localmedia.Store) (CoverService, error) {
	serviceLog := baseLog.With("service", "CoverService")

	var face font.Face
	fontPath := strings.TrimSpace(os.Getenv("COVER_FONT"))
	if fontPath != "" {
		loaded, err := loadFontFace(fontPath, 220)
		if err != nil {
			return nil, fmt.Errorf("could not load cover font: %w", err)
		}
		face = loaded
	} else {
		// Without a font the default cover is rendered textless.
		serviceLog.Warn("COVER_FONT not set, default covers render without the title initial")
	}

	return &coverService{
		db:    db,
		log:   serviceLog,
		media: media,
		palette: []color.NRGBA{
			{R: 0x3E, G: 0x5C, B: 0x76, A: 0xFF},
			{R: 0x6B, G: 0x4E, B: 0x71, A: 0xFF},
			{R: 0x2F, G: 0x6B, B: 0x4F, A: 0xFF},
			{R: 0x8C, G: 0x3F, B: 0x3F, A: 0xFF},
			{R: 0x46, G: 0x46, B: 0x82, A: 0xFF},
			{R: 0x7A, G: 0x5C, B: 0x2E, A: 0xFF},
		},
		fontFace: face,
	}, nil
}

func (cs *coverService) CreateDefaultCover(ctx context.Context, tx *gorm.DB, novel *domain.Novel) error {
	if novel == nil {
		return fmt.Errorf("nil novel")
	}

	buf, err := cs.renderDefaultCover(novel)
	if err != nil {
		return fmt.Errorf("render default cover: %w", err)
	}
	return cs.saveCover(ctx, novel, buf.Bytes())
}

func (cs *coverService) CreateCoverFromImage(ctx context.Context, tx *gorm.DB, novel *domain.Novel, raw []byte) error {
	if novel == nil {
		return fmt.Errorf("nil novel")
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode cover image: %w", err)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, coverWidth, coverHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return fmt.Errorf("encode cover image: %w", err)
	}
	return cs.saveCover(ctx, novel, buf.Bytes())
}

func (cs *coverService) saveCover(ctx context.Context, novel *domain.Novel, data []byte) error {
	// Versioned key so CDNs never serve a stale cover.
	key := fmt.Sprintf("novel_cover/%s/%d.png", novel.ID.String(), time.Now().UnixNano())
	if err := cs.media.Save(ctx, key, data); err != nil {
		return fmt.Errorf("save cover: %w", err)
	}
	novel.CoverImage = cs.media.PublicURL(key)
	return nil
}

func (cs *coverService) renderDefaultCover(novel *domain.Novel) (*bytes.Buffer, error) {
	bg := cs.palette[paletteIndex(novel.ID.String(), len(cs.palette))]

	dc := gg.NewContext(coverWidth, coverHeight)
	dc.SetColor(bg)
	dc.Clear()

	// Darkened band across the lower third, echoing a spine label.
	dc.SetRGBA(0, 0, 0, 0.18)
	dc.DrawRectangle(0, float64(coverHeight)*0.68, float64(coverWidth), float64(coverHeight)*0.32)
	dc.Fill()

	if cs.fontFace != nil {
		dc.SetFontFace(cs.fontFace)
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(titleInitial(novel.Title), float64(coverWidth)/2, float64(coverHeight)*0.42, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func titleInitial(title string) string {
	for _, r := range strings.TrimSpace(title) {
		return string(unicode.ToUpper(r))
	}
	return "?"
}

func paletteIndex(seed string, size int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	return int(h.Sum32() % uint32(size))
}

func loadFontFace(path string, points float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: points}), nil
}

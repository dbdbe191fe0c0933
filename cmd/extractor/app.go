package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"invoice-extractor/internal/config"
	"invoice-extractor/internal/database"
	"invoice-extractor/internal/decoder"
	"invoice-extractor/internal/repositories"
	"invoice-extractor/internal/services"
)

// newExtractionService wires the source database, repository and services
// for one process. The caller closes the returned database.
func newExtractionService(cfg *config.Config) (*services.ExtractionService, *sqlx.DB, error) {
	layout := decoder.DefaultLayout()
	if cfg.Source.LayoutFile != "" {
		loaded, err := decoder.LoadLayout(cfg.Source.LayoutFile)
		if err != nil {
			return nil, nil, err
		}
		layout = loaded
	}

	textDecoder, err := repositories.DecoderForCharset(cfg.Source.Charset)
	if err != nil {
		return nil, nil, err
	}

	db, err := database.NewConnection(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting to database: %w", err)
	}

	repo := repositories.NewInvoiceRepository(db, layout, textDecoder)
	normalizer := services.NewNormalizationService(decoder.New(layout), cfg.Source.MaxRows)
	return services.NewExtractionService(repo, normalizer), db, nil
}

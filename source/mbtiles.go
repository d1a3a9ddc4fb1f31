package source

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/eak1mov/go-tilemask/tile"
)

// MBTiles enumerates tiles of an MBTiles file.
type MBTiles struct {
	db      *sql.DB
	logger  *slog.Logger
	maxZoom int
}

// OpenMBTiles opens an MBTiles file read-only.
//
// The returned MBTiles must be closed after use to release database resources.
func OpenMBTiles(filePath string, opts ...Option) (*MBTiles, error) {
	c := newConfig(opts)

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	maxZoom, err := readMaxZoom(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	c.Logger.Debug("tilemask: opened mbtiles", "path", filePath, "maxZoom", maxZoom)

	return &MBTiles{db: db, logger: c.Logger, maxZoom: maxZoom}, nil
}

// readMaxZoom prefers the metadata entry and falls back to the tiles table.
func readMaxZoom(db *sql.DB) (int, error) {
	var value string
	err := db.QueryRow("SELECT value FROM metadata WHERE name = 'maxzoom'").Scan(&value)
	if err == nil {
		if maxZoom, err := strconv.Atoi(value); err == nil {
			return maxZoom, nil
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	var maxZoom sql.NullInt64
	if err := db.QueryRow("SELECT MAX(zoom_level) FROM tiles").Scan(&maxZoom); err != nil {
		return 0, err
	}
	if !maxZoom.Valid {
		return -1, nil
	}
	return int(maxZoom.Int64), nil
}

func (s *MBTiles) Close() error {
	return s.db.Close()
}

func (s *MBTiles) MaxZoom() int {
	return s.maxZoom
}

func (s *MBTiles) VisitTileIDs(visitor func(tile.ID) error) error {
	rows, err := s.db.Query("SELECT zoom_level, tile_column, tile_row FROM tiles")
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var x, y, z uint32
		if err := rows.Scan(&z, &x, &y); err != nil {
			return err
		}

		y = (1 << z) - 1 - y // TMS -> XYZ

		if err := visitor(tile.ID{X: x, Y: y, Z: z}); err != nil {
			return err
		}
		count++
	}

	if err := rows.Err(); err != nil {
		return err
	}

	s.logger.Debug("tilemask: visited mbtiles", "tiles", count)
	return nil
}

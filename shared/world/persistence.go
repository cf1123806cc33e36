package world

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"VoxelTerra/shared/util"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ChunkModel representa o esquema do banco de dados para um chunk.
type ChunkModel struct {
	ID        string `gorm:"primaryKey"` // Coordenada formatada "X_Z"
	X, Z      int32  `gorm:"index:idx_pos"`
	Data      []byte // Blocos serializados (wire format + RLE)
	MTime     int64  // Versão dos dados
	UpdatedAt time.Time
}

// WorldMetadata armazena informações globais do mundo no banco.
type WorldMetadata struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

const currentSaveVersion = 1

// OpenPersistence abre (ou cria) o banco SQLite do mundo e roda migrações.
func (s *Store) OpenPersistence(worldName string) error {
	if err := os.MkdirAll("saves", 0755); err != nil {
		return err
	}

	dbPath := filepath.Join("saves", fmt.Sprintf("%s.vt", worldName))

	// Logger silencioso: consultas por chunk acontecem no caminho de
	// streaming e poluiriam o log.
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}

	if err := db.AutoMigrate(&ChunkModel{}, &WorldMetadata{}); err != nil {
		return fmt.Errorf("falha na migração do banco: %w", err)
	}

	s.db = db

	db.Save(&WorldMetadata{Key: "SaveVersion", Value: fmt.Sprint(currentSaveVersion)})
	db.Save(&WorldMetadata{Key: "WorldName", Value: worldName})

	log.Printf("[Mundo] Banco de dados SQLite aberto: %s", dbPath)
	return nil
}

// saveChunk persiste um único chunk (upsert).
func (s *Store) saveChunk(c *Chunk) error {
	if s.db == nil {
		return fmt.Errorf("banco de dados não inicializado")
	}

	blocks, mtime := c.SnapshotBlocks()
	model := ChunkModel{
		ID:    fmt.Sprintf("%d_%d", c.Coord.X, c.Coord.Z),
		X:     c.Coord.X,
		Z:     c.Coord.Z,
		Data:  EncodeChunkData(blocks, mtime),
		MTime: mtime,
	}

	if err := s.db.Save(&model).Error; err != nil {
		return err
	}
	c.MarkSaved()
	return nil
}

// loadChunk tenta carregar um chunk do banco. Retorna
// gorm.ErrRecordNotFound quando o chunk nunca foi salvo.
func (s *Store) loadChunk(coord util.ChunkCoord) (*Chunk, error) {
	if s.db == nil {
		return nil, gorm.ErrRecordNotFound
	}

	var model ChunkModel
	id := fmt.Sprintf("%d_%d", coord.X, coord.Z)
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		return nil, err
	}

	blocks, mtime, err := DecodeChunkData(model.Data)
	if err != nil {
		return nil, fmt.Errorf("blob corrompido: %w", err)
	}

	c := NewChunk(coord)
	c.FillBlocks(blocks, mtime)
	return c, nil
}

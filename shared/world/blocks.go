package world

// Identificadores de bloco. O valor zero é sempre ar.
const (
	BlockAir uint8 = iota
	BlockStone
	BlockDirt
	BlockGrass
	BlockSand
	BlockWater
	BlockIce
	BlockTallGrass
	BlockFlower
	BlockLeaves
	BlockWood
)

// RenderPhase identifica em qual passada de desenho a geometria de um
// bloco é emitida.
type RenderPhase int

const (
	PhaseOpaque RenderPhase = iota
	PhaseWaterAndIce
	PhaseBillboardAndTranslucent
	PhaseCount
)

// String retorna o nome da fase (usado em logs e estatísticas).
func (p RenderPhase) String() string {
	switch p {
	case PhaseOpaque:
		return "opaque"
	case PhaseWaterAndIce:
		return "water_ice"
	case PhaseBillboardAndTranslucent:
		return "billboard"
	}
	return "unknown"
}

// BlockType descreve as propriedades visuais e físicas de um tipo de bloco.
type BlockType struct {
	ID        uint8
	Name      string
	Phase     RenderPhase
	Solid     bool // Bloqueia movimento e oclui faces vizinhas
	Billboard bool // Desenhado como quads cruzados, não como cubo
	Color     [4]uint8
}

// catálogo padrão, indexado pelo ID do bloco.
var blockCatalog = [256]BlockType{
	BlockAir:       {ID: BlockAir, Name: "ar", Phase: PhaseOpaque, Solid: false},
	BlockStone:     {ID: BlockStone, Name: "pedra", Phase: PhaseOpaque, Solid: true, Color: [4]uint8{130, 130, 135, 255}},
	BlockDirt:      {ID: BlockDirt, Name: "terra", Phase: PhaseOpaque, Solid: true, Color: [4]uint8{120, 85, 60, 255}},
	BlockGrass:     {ID: BlockGrass, Name: "grama", Phase: PhaseOpaque, Solid: true, Color: [4]uint8{95, 160, 70, 255}},
	BlockSand:      {ID: BlockSand, Name: "areia", Phase: PhaseOpaque, Solid: true, Color: [4]uint8{220, 205, 160, 255}},
	BlockWater:     {ID: BlockWater, Name: "agua", Phase: PhaseWaterAndIce, Solid: false, Color: [4]uint8{60, 110, 200, 160}},
	BlockIce:       {ID: BlockIce, Name: "gelo", Phase: PhaseWaterAndIce, Solid: true, Color: [4]uint8{180, 210, 240, 200}},
	BlockTallGrass: {ID: BlockTallGrass, Name: "capim", Phase: PhaseBillboardAndTranslucent, Solid: false, Billboard: true, Color: [4]uint8{80, 150, 60, 255}},
	BlockFlower:    {ID: BlockFlower, Name: "flor", Phase: PhaseBillboardAndTranslucent, Solid: false, Billboard: true, Color: [4]uint8{220, 90, 90, 255}},
	BlockLeaves:    {ID: BlockLeaves, Name: "folhas", Phase: PhaseBillboardAndTranslucent, Solid: true, Color: [4]uint8{60, 120, 50, 220}},
	BlockWood:      {ID: BlockWood, Name: "tronco", Phase: PhaseOpaque, Solid: true, Color: [4]uint8{100, 75, 45, 255}},
}

// BlockInfo retorna as propriedades de um tipo de bloco.
func BlockInfo(id uint8) BlockType {
	return blockCatalog[id]
}

// IsSolid verifica se um bloco oclui as faces dos vizinhos.
func IsSolid(id uint8) bool {
	return blockCatalog[id].Solid
}

// IsWater verifica se um bloco pertence à fase de água/gelo líquida.
func IsWater(id uint8) bool {
	return id == BlockWater
}

// PhaseOf retorna a fase de desenho de um bloco.
func PhaseOf(id uint8) RenderPhase {
	return blockCatalog[id].Phase
}

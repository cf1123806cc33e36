package world

import (
	"bytes"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestEncodeDecodeChunkData(t *testing.T) {
	blocks := make([]uint8, ChunkVolume)
	for i := 0; i < 1000; i++ {
		blocks[i] = BlockStone
	}
	blocks[5000] = BlockWater
	blocks[5001] = BlockWater
	blocks[ChunkVolume-1] = BlockFlower

	blob := EncodeChunkData(blocks, 42)

	got, mtime, err := DecodeChunkData(blob)
	if err != nil {
		t.Fatalf("DecodeChunkData: %v", err)
	}
	if mtime != 42 {
		t.Errorf("mtime = %d, want 42", mtime)
	}
	if !bytes.Equal(got, blocks) {
		t.Error("blocos decodificados diferem dos originais")
	}
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	blocks := make([]uint8, ChunkVolume)
	blocks[0] = BlockDirt
	blob := EncodeChunkData(blocks, 7)

	// Um gravador futuro pode acrescentar campos; o leitor atual deve
	// ignorá-los sem erro.
	blob = protowire.AppendTag(blob, protowire.Number(9), protowire.VarintType)
	blob = protowire.AppendVarint(blob, 12345)
	blob = protowire.AppendTag(blob, protowire.Number(10), protowire.BytesType)
	blob = protowire.AppendBytes(blob, []byte("extensao"))

	got, mtime, err := DecodeChunkData(blob)
	if err != nil {
		t.Fatalf("DecodeChunkData com campos extras: %v", err)
	}
	if mtime != 7 || got[0] != BlockDirt {
		t.Errorf("dados corrompidos após campos extras: mtime=%d bloco=%d", mtime, got[0])
	}
}

func TestDecodeRejectsBadBlob(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{"vazio", nil},
		{"lixo", []byte{0xff, 0xff, 0xff}},
		{"sem blocos", func() []byte {
			b := protowire.AppendTag(nil, fieldVersion, protowire.VarintType)
			return protowire.AppendVarint(b, blobFormatVersion)
		}()},
	}

	for _, tt := range tests {
		if _, _, err := DecodeChunkData(tt.blob); err == nil {
			t.Errorf("%s: esperado erro, veio nil", tt.name)
		}
	}
}

func TestRLERoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		blocks []uint8
	}{
		{"tudo ar", make([]uint8, 512)},
		{"alternado", func() []uint8 {
			b := make([]uint8, 512)
			for i := range b {
				b[i] = uint8(i % 2)
			}
			return b
		}()},
		{"corrida longa", func() []uint8 {
			// Mais de 255 repetições força a quebra da corrida.
			b := make([]uint8, 600)
			for i := range b {
				b[i] = BlockStone
			}
			return b
		}()},
	}

	for _, tt := range tests {
		compressed := rleCompress(tt.blocks)
		got, err := rleExpand(compressed, len(tt.blocks))
		if err != nil {
			t.Errorf("%s: rleExpand: %v", tt.name, err)
			continue
		}
		if !bytes.Equal(got, tt.blocks) {
			t.Errorf("%s: round trip divergiu", tt.name)
		}
	}
}

package world

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Formato do blob de chunk persistido:
//   campo 1 (varint) = versão do formato
//   campo 2 (varint) = mtime dos dados
//   campo 3 (bytes)  = blocos comprimidos em RLE (pares contagem, valor)
const blobFormatVersion = 1

const (
	fieldVersion = protowire.Number(1)
	fieldMTime   = protowire.Number(2)
	fieldBlocks  = protowire.Number(3)
)

// rleCompress comprime a grade de blocos em pares (contagem, valor).
// Colunas de ar e camadas de pedra dominam um chunk típico, então a
// redução costuma passar de 90%.
func rleCompress(blocks []uint8) []byte {
	out := make([]byte, 0, 1024)
	i := 0
	for i < len(blocks) {
		v := blocks[i]
		run := 1
		for i+run < len(blocks) && blocks[i+run] == v && run < 255 {
			run++
		}
		out = append(out, byte(run), v)
		i += run
	}
	return out
}

// rleExpand expande pares (contagem, valor) de volta para a grade completa.
func rleExpand(data []byte, size int) ([]uint8, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("rle truncado: %d bytes", len(data))
	}
	out := make([]uint8, 0, size)
	for i := 0; i < len(data); i += 2 {
		run := int(data[i])
		v := data[i+1]
		for j := 0; j < run; j++ {
			out = append(out, v)
		}
	}
	if len(out) != size {
		return nil, fmt.Errorf("rle expandiu para %d blocos, esperado %d", len(out), size)
	}
	return out, nil
}

// EncodeChunkData serializa os blocos de um chunk no formato de blob.
func EncodeChunkData(blocks []uint8, mtime int64) []byte {
	buf := make([]byte, 0, 1024)
	buf = protowire.AppendTag(buf, fieldVersion, protowire.VarintType)
	buf = protowire.AppendVarint(buf, blobFormatVersion)
	buf = protowire.AppendTag(buf, fieldMTime, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(mtime))
	buf = protowire.AppendTag(buf, fieldBlocks, protowire.BytesType)
	buf = protowire.AppendBytes(buf, rleCompress(blocks))
	return buf
}

// DecodeChunkData desserializa um blob para a grade de blocos e o mtime.
func DecodeChunkData(data []byte) ([]uint8, int64, error) {
	var (
		mtime   int64
		blocks  []uint8
		version uint64
	)

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, 0, fmt.Errorf("tag inválida: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldVersion && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, 0, protowire.ParseError(n)
			}
			version = v
			data = data[n:]
		case num == fieldMTime && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, 0, protowire.ParseError(n)
			}
			mtime = int64(v)
			data = data[n:]
		case num == fieldBlocks && typ == protowire.BytesType:
			b, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, 0, protowire.ParseError(n)
			}
			expanded, err := rleExpand(b, ChunkVolume)
			if err != nil {
				return nil, 0, err
			}
			blocks = expanded
			data = data[n:]
		default:
			// Campo desconhecido: pula para manter compatibilidade futura.
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, 0, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}

	if version != blobFormatVersion {
		return nil, 0, fmt.Errorf("formato de chunk desconhecido: %d", version)
	}
	if blocks == nil {
		return nil, 0, fmt.Errorf("blob sem dados de bloco")
	}
	return blocks, mtime, nil
}

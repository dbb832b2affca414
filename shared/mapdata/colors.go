package mapdata

// BlockColor é uma cor nomeada usada para colorir blocos sem textura.
type BlockColor struct {
	Token   string
	Name    string
	R, G, B uint8
}

// BlockColorList é a tabela de cores base dos blocos.
var BlockColorList = []BlockColor{
	{"ANDESITE", "andesite", 136, 136, 137},
	{"BASALT", "basalt", 81, 81, 86},
	{"BIRCH", "birch", 216, 201, 140},
	{"BLACKSTONE", "blackstone", 42, 36, 41},
	{"BRICK", "brick", 150, 97, 83},
	{"CACTUS", "cactus", 85, 127, 43},
	{"CALCITE", "calcite", 223, 224, 220},
	{"CLAY", "clay", 160, 166, 179},
	{"COAL", "coal", 46, 46, 46},
	{"COBBLESTONE", "cobblestone", 127, 127, 127},
	{"COPPER", "copper", 184, 115, 51},
	{"DEEPSLATE", "deepslate", 80, 80, 82},
	{"DIAMOND", "diamond", 98, 237, 228},
	{"DIORITE", "diorite", 188, 188, 188},
	{"DIRT", "dirt", 134, 96, 67},
	{"END_STONE", "end stone", 219, 222, 158},
	{"GLASS", "glass", 200, 230, 240},
	{"GOLD", "gold", 246, 208, 61},
	{"GRANITE", "granite", 149, 103, 85},
	{"GRASS", "grass", 95, 159, 53},
	{"GRAVEL", "gravel", 131, 127, 126},
	{"ICE", "ice", 145, 183, 253},
	{"IRON", "iron", 216, 216, 216},
	{"JUNGLE", "jungle", 160, 115, 80},
	{"LAPIS", "lapis", 30, 67, 140},
	{"LAVA", "lava", 207, 92, 15},
	{"LEAVES", "leaves", 60, 120, 40},
	{"MOSS", "moss", 89, 109, 45},
	{"MUD", "mud", 60, 57, 60},
	{"MYCELIUM", "mycelium", 111, 98, 101},
	{"NETHERRACK", "netherrack", 97, 38, 38},
	{"OAK", "oak", 162, 130, 78},
	{"OBSIDIAN", "obsidian", 15, 10, 24},
	{"PODZOL", "podzol", 91, 63, 24},
	{"PRISMARINE", "prismarine", 99, 156, 151},
	{"QUARTZ", "quartz", 235, 229, 222},
	{"REDSTONE", "redstone", 175, 24, 5},
	{"SAND", "sand", 219, 207, 163},
	{"SANDSTONE", "sandstone", 216, 203, 155},
	{"SNOW", "snow", 249, 254, 254},
	{"SPRUCE", "spruce", 114, 84, 48},
	{"STONE", "stone", 125, 125, 125},
	{"TERRACOTTA", "terracotta", 152, 94, 67},
	{"TUFF", "tuff", 108, 109, 102},
	{"WATER", "water", 63, 118, 228},
	{"WOOL", "wool", 233, 236, 236},
}

// blockColorMap é um mapa indexado pelo token para lookup rápido.
var blockColorMap map[string]BlockColor

func init() {
	blockColorMap = make(map[string]BlockColor, len(BlockColorList))
	for _, c := range BlockColorList {
		blockColorMap[c.Token] = c
	}
}

// GetBlockColor retorna a cor RGB para um token.
// Ex: GetBlockColor("SAND") → {219, 207, 163}
func GetBlockColor(token string) (uint8, uint8, uint8, bool) {
	if c, ok := blockColorMap[token]; ok {
		return c.R, c.G, c.B, true
	}
	return 128, 128, 128, false
}

// FindNearestBlockColor encontra o token mais próximo de um RGB dado.
// Usa distância euclidiana no espaço RGB.
func FindNearestBlockColor(r, g, b uint8) string {
	bestToken := "STONE"
	bestDist := int32(999999)
	for _, c := range BlockColorList {
		dr := int32(r) - int32(c.R)
		dg := int32(g) - int32(c.G)
		db := int32(b) - int32(c.B)
		dist := dr*dr + dg*dg + db*db
		if dist < bestDist {
			bestDist = dist
			bestToken = c.Token
		}
	}
	return bestToken
}

type blockKeyword struct {
	keyword     string
	token       string
	transparent bool
}

// blockKeywords é avaliada em ordem; palavras mais específicas primeiro.
var blockKeywords = []blockKeyword{
	{"glass", "GLASS", true},
	{"water", "WATER", true},
	{"ice", "ICE", true},
	{"leaves", "LEAVES", true},
	{"lava", "LAVA", false},
	{"grass_block", "GRASS", false},
	{"short_grass", "GRASS", true},
	{"tall_grass", "GRASS", true},
	{"moss", "MOSS", false},
	{"mycelium", "MYCELIUM", false},
	{"podzol", "PODZOL", false},
	{"mud", "MUD", false},
	{"dirt", "DIRT", false},
	{"farmland", "DIRT", false},
	{"sandstone", "SANDSTONE", false},
	{"sand", "SAND", false},
	{"gravel", "GRAVEL", false},
	{"clay", "CLAY", false},
	{"snow", "SNOW", false},
	{"cobblestone", "COBBLESTONE", false},
	{"deepslate", "DEEPSLATE", false},
	{"blackstone", "BLACKSTONE", false},
	{"end_stone", "END_STONE", false},
	{"andesite", "ANDESITE", false},
	{"diorite", "DIORITE", false},
	{"granite", "GRANITE", false},
	{"calcite", "CALCITE", false},
	{"tuff", "TUFF", false},
	{"basalt", "BASALT", false},
	{"netherrack", "NETHERRACK", false},
	{"obsidian", "OBSIDIAN", false},
	{"prismarine", "PRISMARINE", false},
	{"quartz", "QUARTZ", false},
	{"terracotta", "TERRACOTTA", false},
	{"brick", "BRICK", false},
	{"wool", "WOOL", false},
	{"cactus", "CACTUS", false},
	{"coal", "COAL", false},
	{"iron", "IRON", false},
	{"gold", "GOLD", false},
	{"copper", "COPPER", false},
	{"diamond", "DIAMOND", false},
	{"lapis", "LAPIS", false},
	{"redstone", "REDSTONE", false},
	{"birch", "BIRCH", false},
	{"spruce", "SPRUCE", false},
	{"jungle", "JUNGLE", false},
	{"oak", "OAK", false},
	{"stone", "STONE", false},
}

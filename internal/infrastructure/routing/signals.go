package routing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Nyukimin/kibalone_studio/internal/domain/routing"
)

// DefaultTexture はテクスチャ指定がないときの値
const DefaultTexture = "default"

var numberPattern = regexp.MustCompile(`\b(\d+)\b`)

// textureWords は素材名の仏英辞書（この順に照合し、最初の一致を採用）
var textureWords = []struct {
	fr string
	en string
}{
	{"bois", "wood"},
	{"métal", "metal"},
	{"pierre", "stone"},
	{"marbre", "marble"},
	{"béton", "concrete"},
	{"herbe", "grass"},
	{"tissu", "fabric"},
	{"verre", "glass"},
}

// directionWords はカメラ移動方向の辞書
var directionWords = []struct {
	keyword   string
	direction string
}{
	{"avance", "forward"},
	{"recule", "backward"},
	{"gauche", "left"},
	{"droite", "right"},
	{"monte", "up"},
	{"descend", "down"},
}

// ExtractSignals は小文字化済みのプロンプトからシグナルを抽出
func ExtractSignals(lower string) routing.Signals {
	return routing.Signals{
		Numbers:      extractNumbers(lower),
		TextureQuery: extractTexture(lower),
		Directions:   extractDirections(lower),
	}
}

func extractNumbers(lower string) []int {
	matches := numberPattern.FindAllStringSubmatch(lower, -1)
	numbers := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// intに収まらない桁数は無視
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

func extractTexture(lower string) string {
	for _, w := range textureWords {
		if strings.Contains(lower, w.fr) || strings.Contains(lower, w.en) {
			return w.en
		}
	}
	return DefaultTexture
}

func extractDirections(lower string) []string {
	directions := make([]string, 0, 2)
	for _, w := range directionWords {
		if strings.Contains(lower, w.keyword) {
			directions = append(directions, w.direction)
		}
	}
	return directions
}

// containsWord は単語境界で区切られた語が含まれるかを判定
func containsWord(lower, word string) bool {
	for _, field := range strings.FieldsFunc(lower, isWordSeparator) {
		if field == word {
			return true
		}
	}
	return false
}

func isWordSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', ',', '.', ';', ':', '!', '?', '\'', '"', '(', ')', '-':
		return true
	}
	return false
}

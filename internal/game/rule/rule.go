package rule

// Choice 出拳选择
// ChoiceNone 表示本轮尚未出拳（显式建模，避免空值判断散落各处）
type Choice int

const (
	ChoiceNone Choice = iota
	ChoiceRock
	ChoiceScissors
	ChoicePaper
)

// Chosen 是否已出拳
func (c Choice) Chosen() bool {
	return c != ChoiceNone
}

// String 返回协议中使用的字符串
func (c Choice) String() string {
	switch c {
	case ChoiceRock:
		return "rock"
	case ChoiceScissors:
		return "scissors"
	case ChoicePaper:
		return "paper"
	default:
		return ""
	}
}

// ParseChoice 解析协议中的出拳字符串
func ParseChoice(s string) (Choice, bool) {
	switch s {
	case "rock":
		return ChoiceRock, true
	case "scissors":
		return ChoiceScissors, true
	case "paper":
		return ChoicePaper, true
	default:
		return ChoiceNone, false
	}
}

// Beats 判断 c 是否克制 o
// 石头砸剪刀，剪刀剪布，布包石头
func (c Choice) Beats(o Choice) bool {
	switch c {
	case ChoiceRock:
		return o == ChoiceScissors
	case ChoiceScissors:
		return o == ChoicePaper
	case ChoicePaper:
		return o == ChoiceRock
	default:
		return false
	}
}

// Outcome 一轮的判定结果
// Winners/Losers 均为玩家 ID 集合，Draw 表示无人分出胜负
type Outcome struct {
	Winners []string
	Losers  []string
	Draw    bool
}

// Resolve 判定一轮胜负，纯函数
//
// 按出拳种类分组，k 为本轮出现的不同出拳数：
//   - k=0：无人出拳，整轮重赛，不淘汰任何人
//   - k=1：出拳者之间平局重赛，未出拳者判负
//   - k=2：按克制关系分出胜负组，未出拳者并入败者组
//   - k=3：三种拳都有，平局重赛，未出拳者仍判负
//
// 结果与输入顺序无关，同组内的并列只由名次分配处理
func Resolve(choices map[string]Choice) Outcome {
	groups := make(map[Choice][]string)
	var abstained []string

	for id, c := range choices {
		if c.Chosen() {
			groups[c] = append(groups[c], id)
		} else {
			abstained = append(abstained, id)
		}
	}

	// 只有恰好两种拳时才能分出胜负
	if len(groups) != 2 {
		if len(groups) == 0 {
			// 无人出拳，不罚未出拳者
			return Outcome{Draw: true}
		}
		return Outcome{Draw: true, Losers: abstained}
	}

	present := make([]Choice, 0, 2)
	for c := range groups {
		present = append(present, c)
	}

	winning, losing := present[0], present[1]
	if losing.Beats(winning) {
		winning, losing = losing, winning
	}

	return Outcome{
		Winners: groups[winning],
		Losers:  append(groups[losing], abstained...),
	}
}

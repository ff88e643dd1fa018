package game

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Battle log keys. The English text doubles as the format string.
const (
	msgAppears      = "A %s appears!"
	msgPlayerHit    = "You hit %s for %d damage!"
	msgCast         = "You cast %s!"
	msgMagicHit     = "%s takes %d magic damage!"
	msgHeal         = "You cast %s and restore %d health!"
	msgDefeated     = "%s is defeated!"
	msgRewards      = "Gained %d experience and %d gold!"
	msgLevelUp      = "Level up! You reached level %d and gained %d skill points!"
	msgMonsterHit   = "%s hits you for %d damage!"
	msgPlayerDown   = "You were defeated..."
	msgFled         = "You escaped!"
	msgFleeFailed   = "You failed to escape!"
	msgBattleOver   = "The battle is over."
	msgNotYourTurn  = "It is not your turn."
	msgNotTheirTurn = "It is not the monster's turn."
	msgNoMana       = "Not enough mana."
	msgUnknownSpell = "You don't know that spell."
	msgUnknownMove  = "Unknown action."
)

var zhMessages = map[string]string{
	msgAppears:      "%s出现了！",
	msgPlayerHit:    "你对%s造成了%d点伤害！",
	msgCast:         "你施放了%s！",
	msgMagicHit:     "对%s造成了%d点魔法伤害！",
	msgHeal:         "你使用%s恢复了%d点生命值！",
	msgDefeated:     "%s被击败了！",
	msgRewards:      "获得%d经验值和%d金币！",
	msgLevelUp:      "恭喜！你升到了%d级！获得%d技能点！",
	msgMonsterHit:   "%s对你造成了%d点伤害！",
	msgPlayerDown:   "你被击败了...",
	msgFled:         "你成功逃脱了！",
	msgFleeFailed:   "逃跑失败！",
	msgBattleOver:   "战斗已经结束。",
	msgNotYourTurn:  "还没轮到你。",
	msgNotTheirTurn: "还没轮到敌人。",
	msgNoMana:       "魔法值不足。",
	msgUnknownSpell: "你不会这个法术。",
	msgUnknownMove:  "未知的行动。",
}

func init() {
	for key, zh := range zhMessages {
		_ = message.SetString(language.Chinese, key, zh)
	}
}

// NewPrinter returns a battle log printer for a BCP 47 locale such as "en"
// or "zh". Unparseable locales fall back to English.
func NewPrinter(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

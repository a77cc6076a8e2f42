package models

import "slices"

// StatusType is an ailment a monster ability can inflict
type StatusType string

const (
	StatusPoison    StatusType = "poison"
	StatusSleep     StatusType = "sleep"
	StatusParalysis StatusType = "paralysis"
	StatusConfusion StatusType = "confusion"
)

// AbilityKind tags what a monster ability does
type AbilityKind string

const (
	AbilityDamage AbilityKind = "damage"
	AbilityStatus AbilityKind = "status"
	AbilityHeal   AbilityKind = "heal"
)

// StatusEffect is the payload of an ailment-inflicting ability
type StatusEffect struct {
	Type     StatusType `json:"type" yaml:"type"`
	Chance   float64    `json:"chance" yaml:"chance"`
	Duration int        `json:"duration" yaml:"duration"`
}

// MonsterAbility is one move in a monster's repertoire
type MonsterAbility struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Kind        AbilityKind   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Damage      int           `json:"damage,omitempty" yaml:"damage,omitempty"`
	Heal        int           `json:"heal,omitempty" yaml:"heal,omitempty"`
	UseChance   float64       `json:"use_chance" yaml:"use_chance"`
	Status      *StatusEffect `json:"status,omitempty" yaml:"status,omitempty"`
}

// MonsterStats are a monster's combat attributes
type MonsterStats struct {
	HP          int `json:"hp" yaml:"hp"`
	MaxHP       int `json:"max_hp" yaml:"max_hp"`
	Attack      int `json:"attack" yaml:"attack"`
	Defense     int `json:"defense" yaml:"defense"`
	Speed       int `json:"speed" yaml:"speed"`
	MagicResist int `json:"magic_resist" yaml:"magic_resist"`
}

// MonsterDrop is a possible loot roll
type MonsterDrop struct {
	ItemID      string  `json:"item_id" yaml:"item_id"`
	Chance      float64 `json:"chance" yaml:"chance"`
	MinQuantity int     `json:"min_quantity" yaml:"min_quantity"`
	MaxQuantity int     `json:"max_quantity" yaml:"max_quantity"`
}

// Monster is a hostile combatant
type Monster struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string           `json:"type,omitempty" yaml:"type,omitempty"`
	Level       int              `json:"level" yaml:"level"`
	Stats       MonsterStats     `json:"stats" yaml:"stats"`
	Abilities   []MonsterAbility `json:"abilities" yaml:"abilities"`
	Drops       []MonsterDrop    `json:"drops,omitempty" yaml:"drops,omitempty"`
}

// Alive reports whether the monster can still act
func (m Monster) Alive() bool {
	return m.Stats.HP > 0
}

// Clone returns a deep copy of the monster
func (m Monster) Clone() Monster {
	c := m
	c.Abilities = slices.Clone(m.Abilities)
	for i, a := range c.Abilities {
		if a.Status != nil {
			s := *a.Status
			c.Abilities[i].Status = &s
		}
	}
	c.Drops = slices.Clone(m.Drops)
	return c
}

// BattleResult is the outcome of a battle
type BattleResult string

const (
	BattleOngoing BattleResult = "ongoing"
	BattleVictory BattleResult = "victory"
	BattleDefeat  BattleResult = "defeat"
	BattleEscape  BattleResult = "escape"
)

// CombatantKind distinguishes turn order entries
type CombatantKind string

const (
	CombatantPlayer  CombatantKind = "player"
	CombatantMonster CombatantKind = "monster"
)

// TurnEntry is one slot in the turn order
type TurnEntry struct {
	Kind  CombatantKind `json:"kind" yaml:"kind"`
	ID    string        `json:"id" yaml:"id"`
	Name  string        `json:"name" yaml:"name"`
	Speed int           `json:"speed" yaml:"speed"`
}

// PlayerStatus tracks ailments on the player during a battle
type PlayerStatus struct {
	Poisoned       bool `json:"poisoned" yaml:"poisoned"`
	PoisonTurns    int  `json:"poison_turns" yaml:"poison_turns"`
	Asleep         bool `json:"asleep" yaml:"asleep"`
	SleepTurns     int  `json:"sleep_turns" yaml:"sleep_turns"`
	Paralyzed      bool `json:"paralyzed" yaml:"paralyzed"`
	ParalysisTurns int  `json:"paralysis_turns" yaml:"paralysis_turns"`
	Confused       bool `json:"confused" yaml:"confused"`
	ConfusionTurns int  `json:"confusion_turns" yaml:"confusion_turns"`
}

// RewardItem is loot granted on victory
type RewardItem struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// Rewards are what a won battle grants
type Rewards struct {
	Experience int          `json:"experience" yaml:"experience"`
	Gold       int          `json:"gold" yaml:"gold"`
	Items      []RewardItem `json:"items" yaml:"items"`
}

// BattleState is the full state of one battle
type BattleState struct {
	Monsters       []Monster    `json:"monsters" yaml:"monsters"`
	PlayerTurn     bool         `json:"player_turn" yaml:"player_turn"`
	CurrentRound   int          `json:"current_round" yaml:"current_round"`
	BattleLog      []string     `json:"battle_log" yaml:"battle_log"`
	PlayerStatus   PlayerStatus `json:"player_status" yaml:"player_status"`
	SelectedTarget *int         `json:"selected_target,omitempty" yaml:"selected_target,omitempty"`
	Result         BattleResult `json:"result" yaml:"result"`
	Rewards        *Rewards     `json:"rewards,omitempty" yaml:"rewards,omitempty"`
	CanRun         bool         `json:"can_run" yaml:"can_run"`
	TurnOrder      []TurnEntry  `json:"turn_order" yaml:"turn_order"`
}

// Clone returns a deep copy of the battle state
func (s BattleState) Clone() BattleState {
	c := s
	c.Monsters = slices.Clone(s.Monsters)
	for i, m := range c.Monsters {
		c.Monsters[i] = m.Clone()
	}
	c.BattleLog = slices.Clone(s.BattleLog)
	c.TurnOrder = slices.Clone(s.TurnOrder)
	if s.SelectedTarget != nil {
		t := *s.SelectedTarget
		c.SelectedTarget = &t
	}
	if s.Rewards != nil {
		r := *s.Rewards
		r.Items = slices.Clone(s.Rewards.Items)
		c.Rewards = &r
	}
	return c
}

// LiveMonsters returns pointers to the monsters still standing, in roster order
func (s *BattleState) LiveMonsters() []*Monster {
	live := make([]*Monster, 0, len(s.Monsters))
	for i := range s.Monsters {
		if s.Monsters[i].Alive() {
			live = append(live, &s.Monsters[i])
		}
	}
	return live
}

// ActionType is what the player chooses to do on their turn
type ActionType string

const (
	ActionAttack ActionType = "attack"
	ActionSpell  ActionType = "spell"
	ActionItem   ActionType = "item"
	ActionRun    ActionType = "run"
)

// BattleAction is one player command
type BattleAction struct {
	Type   ActionType `json:"type"`
	Target *int       `json:"target,omitempty"`
	Spell  string     `json:"spell,omitempty"`
	ItemID string     `json:"item_id,omitempty"`
}

// Encounter is the result of an encounter roll
type Encounter struct {
	Triggered bool      `json:"triggered"`
	Monsters  []Monster `json:"monsters,omitempty"`
	Ambush    bool      `json:"ambush"`
	CanRun    bool      `json:"can_run"`
}

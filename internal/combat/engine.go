package combat

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
)

// ErrNoMonsters is returned when the monster phase runs against an empty roster
var ErrNoMonsters = errors.New("battle has no monsters")

const (
	critMultiplier     = 1.5
	monsterCritChance  = 0.05
	defenseScale       = 50.0
	magicResistScale   = 100.0
	paralysisSkip      = 0.5
	confusionSelfHit   = 0.5
	poisonFraction     = 0.05
	defaultPlayerSpeed = 10
)

type spell struct {
	name   string
	mana   int
	damage int
	heal   int
}

var spellbook = map[string]spell{
	"fireball":  {name: "Fireball", mana: 5, damage: 15},
	"lightning": {name: "Lightning Bolt", mana: 10, damage: 25},
	"heal":      {name: "Heal", mana: 8, heal: 20},
}

// InitializeBattle prepares a battle, filling in any stats a monster is missing
func InitializeBattle(monsters []models.Monster, player models.Player, canRun, ambush bool) models.BattleState {
	roster := make([]models.Monster, len(monsters))
	for i, m := range monsters {
		roster[i] = withDefaults(m.Clone(), i)
	}

	opening := "Battle started! You have the initiative!"
	if ambush {
		opening = "You've been ambushed! The enemies attack first!"
	}

	return models.BattleState{
		Monsters:     roster,
		PlayerTurn:   !ambush,
		CurrentRound: 1,
		BattleLog:    []string{opening},
		Result:       models.BattleOngoing,
		CanRun:       canRun,
		TurnOrder:    CalculateTurnOrder(player, roster),
	}
}

func withDefaults(m models.Monster, i int) models.Monster {
	if m.ID == "" {
		m.ID = fmt.Sprintf("monster-%d", i)
	}
	if m.Name == "" {
		m.Name = "Monster"
	}
	if m.Level <= 0 {
		m.Level = 1
	}
	s := &m.Stats
	if s.HP <= 0 {
		s.HP = 10
	}
	if s.MaxHP <= 0 {
		s.MaxHP = max(s.HP, 10)
	}
	if s.Attack <= 0 {
		s.Attack = 5
	}
	if s.Defense <= 0 {
		s.Defense = 3
	}
	if s.Speed <= 0 {
		s.Speed = 5
	}
	if len(m.Abilities) == 0 {
		m.Abilities = []models.MonsterAbility{{
			Name:        "Attack",
			Description: "A basic attack.",
			Kind:        models.AbilityDamage,
			Damage:      s.Attack,
			UseChance:   1,
		}}
	}
	return m
}

// CalculateTurnOrder sorts the player and every live monster by speed, fastest first
func CalculateTurnOrder(player models.Player, monsters []models.Monster) []models.TurnEntry {
	name := player.Name
	if name == "" {
		name = "Hero"
	}
	order := []models.TurnEntry{{Kind: models.CombatantPlayer, ID: "player", Name: name, Speed: playerSpeed(player)}}
	for _, m := range monsters {
		if m.Alive() {
			order = append(order, models.TurnEntry{Kind: models.CombatantMonster, ID: m.ID, Name: m.Name, Speed: m.Stats.Speed})
		}
	}
	slices.SortStableFunc(order, func(a, b models.TurnEntry) int {
		return b.Speed - a.Speed
	})
	return order
}

// RunChance is the probability of escaping a battle
func RunChance(dexterity int, avgMonsterSpeed float64) float64 {
	chance := 0.5 + (float64(dexterity)-avgMonsterSpeed)*0.05
	return math.Max(0.1, math.Min(0.9, chance))
}

// ProcessPlayerAction resolves one player command and returns the new battle and player
func ProcessPlayerAction(action models.BattleAction, state models.BattleState, player models.Player, seed string) (models.BattleState, models.Player) {
	s, p := state.Clone(), player.Clone()
	if s.Result != models.BattleOngoing {
		return s, p
	}
	if !s.PlayerTurn {
		s.BattleLog = append(s.BattleLog, "It's not your turn!")
		return s, p
	}
	rng := actionRand(seed, "player", &s)

	// 1. Ailments that cost the player their turn
	if skipped := skipTurn(rng, &s); skipped {
		s.PlayerTurn = false
		return s, p
	}

	// 2. The action itself
	switch action.Type {
	case models.ActionAttack:
		attack(rng, action, &s, &p, seed)
	case models.ActionSpell:
		castSpell(rng, action, &s, &p, seed)
	case models.ActionItem:
		useItem(action, &s, &p)
	case models.ActionRun:
		run(rng, &s, p)
	default:
		s.BattleLog = append(s.BattleLog, "Invalid action.")
	}

	// 3. Hand over to the monsters
	if s.Result == models.BattleOngoing {
		s.PlayerTurn = false
	}
	refresh(&s)
	return s, p
}

// ProcessMonsterAction lets every live monster act once, then opens the next round
func ProcessMonsterAction(state models.BattleState, player models.Player, seed string) (models.BattleState, models.Player, error) {
	s, p := state.Clone(), player.Clone()
	if s.Result != models.BattleOngoing {
		return s, p, nil
	}
	if len(s.Monsters) == 0 {
		return s, p, ErrNoMonsters
	}
	if s.PlayerTurn {
		return s, p, nil
	}
	rng := actionRand(seed, "monster", &s)

	for _, m := range s.LiveMonsters() {
		ability := chooseAbility(rng, m)
		switch ability.Kind {
		case models.AbilityHeal:
			amount := max(1, ability.Heal)
			m.Stats.HP = min(m.Stats.MaxHP, m.Stats.HP+amount)
			s.BattleLog = append(s.BattleLog, fmt.Sprintf("%s uses %s and recovers %d HP!", m.Name, ability.Name, amount))
		case models.AbilityStatus:
			if ability.Damage > 0 {
				strike(rng, m, ability, &s, &p)
			}
			inflict(rng, ability.Status, &s)
		default:
			strike(rng, m, ability, &s, &p)
			inflict(rng, ability.Status, &s)
		}

		if p.Stats.CurrentHealth <= 0 {
			defeat(&s, &p)
			return s, p, nil
		}
	}

	// Poison bites once the monsters are done
	if st := &s.PlayerStatus; st.Poisoned {
		dmg := max(1, int(math.Floor(float64(p.Stats.MaxHealth)*poisonFraction)))
		p.Stats.CurrentHealth = max(0, p.Stats.CurrentHealth-dmg)
		s.BattleLog = append(s.BattleLog, fmt.Sprintf("You take %d poison damage!", dmg))
		consume(&st.Poisoned, &st.PoisonTurns)
		if p.Stats.CurrentHealth <= 0 {
			defeat(&s, &p)
			return s, p, nil
		}
	}

	s.PlayerTurn = true
	s.CurrentRound++
	s.BattleLog = append(s.BattleLog, fmt.Sprintf("Round %d begins!", s.CurrentRound))
	return s, p, nil
}

// actionRand derives the stream for one action so replaying a battle replays its rolls
func actionRand(seed, phase string, s *models.BattleState) *random.Rand {
	return random.New(fmt.Sprintf("%s-%s-%d-%d", seed, phase, s.CurrentRound, len(s.BattleLog)))
}

func skipTurn(rng *random.Rand, s *models.BattleState) bool {
	st := &s.PlayerStatus
	if st.Asleep {
		consume(&st.Asleep, &st.SleepTurns)
		s.BattleLog = append(s.BattleLog, "You are asleep and cannot act!")
		return true
	}
	if st.Paralyzed {
		consume(&st.Paralyzed, &st.ParalysisTurns)
		if rng.Bool(paralysisSkip) {
			s.BattleLog = append(s.BattleLog, "You are paralyzed and cannot move!")
			return true
		}
	}
	return false
}

func consume(flag *bool, turns *int) {
	*turns--
	if *turns <= 0 {
		*turns = 0
		*flag = false
	}
}

// target resolves a live-monster index, falling back to the selected target
func target(action models.BattleAction, s *models.BattleState) (*models.Monster, int, bool) {
	live := s.LiveMonsters()
	idx := 0
	switch {
	case action.Target != nil:
		idx = *action.Target
	case s.SelectedTarget != nil:
		idx = *s.SelectedTarget
	}
	if idx < 0 || idx >= len(live) {
		return nil, idx, false
	}
	return live[idx], idx, true
}

func attack(rng *random.Rand, action models.BattleAction, s *models.BattleState, p *models.Player, seed string) {
	m, idx, ok := target(action, s)
	if !ok {
		s.BattleLog = append(s.BattleLog, "Invalid target!")
		return
	}
	s.SelectedTarget = &idx

	st := &s.PlayerStatus
	if st.Confused {
		consume(&st.Confused, &st.ConfusionTurns)
		if rng.Bool(confusionSelfHit) {
			dmg := max(1, int(math.Floor(float64(playerAttack(*p))*0.5)))
			p.Stats.CurrentHealth = max(0, p.Stats.CurrentHealth-dmg)
			s.BattleLog = append(s.BattleLog, fmt.Sprintf("You are confused and hurt yourself for %d damage!", dmg))
			if p.Stats.CurrentHealth <= 0 {
				defeat(s, p)
			}
			return
		}
	}

	crit := rng.Bool(float64(playerDexterity(*p)) / 100)
	dmg := damage(playerAttack(*p), crit, reduction(m.Stats.Defense, defenseScale))
	if crit {
		s.BattleLog = append(s.BattleLog, fmt.Sprintf("Critical hit! You deal %d damage to %s!", dmg, m.Name))
	} else {
		s.BattleLog = append(s.BattleLog, fmt.Sprintf("You attack %s for %d damage!", m.Name, dmg))
	}
	wound(m, dmg, s, *p, seed)
}

func castSpell(rng *random.Rand, action models.BattleAction, s *models.BattleState, p *models.Player, seed string) {
	sp, ok := spellbook[strings.ToLower(action.Spell)]
	if !ok {
		s.BattleLog = append(s.BattleLog, "You don't know that spell!")
		return
	}

	if sp.heal > 0 {
		if p.Stats.CurrentMana < sp.mana {
			s.BattleLog = append(s.BattleLog, fmt.Sprintf("Not enough mana to cast %s!", sp.name))
			return
		}
		p.Stats.CurrentMana -= sp.mana
		p.Stats.CurrentHealth = min(p.Stats.MaxHealth, p.Stats.CurrentHealth+sp.heal)
		s.BattleLog = append(s.BattleLog, fmt.Sprintf("You cast %s and recover %d HP!", sp.name, sp.heal))
		return
	}

	m, idx, ok := target(action, s)
	if !ok {
		s.BattleLog = append(s.BattleLog, "Invalid target!")
		return
	}
	if p.Stats.CurrentMana < sp.mana {
		s.BattleLog = append(s.BattleLog, fmt.Sprintf("Not enough mana to cast %s!", sp.name))
		return
	}
	s.SelectedTarget = &idx
	p.Stats.CurrentMana -= sp.mana

	crit := rng.Bool(float64(playerEnergy(*p)) / 100)
	dmg := damage(sp.damage, crit, reduction(m.Stats.MagicResist, magicResistScale))
	if crit {
		s.BattleLog = append(s.BattleLog, fmt.Sprintf("Critical spell! You cast %s for %d damage to %s!", sp.name, dmg, m.Name))
	} else {
		s.BattleLog = append(s.BattleLog, fmt.Sprintf("You cast %s for %d damage to %s!", sp.name, dmg, m.Name))
	}
	wound(m, dmg, s, *p, seed)
}

func useItem(action models.BattleAction, s *models.BattleState, p *models.Player) {
	i := slices.IndexFunc(p.Inventory, func(it models.Item) bool { return it.ID == action.ItemID })
	if i < 0 || p.Inventory[i].Quantity < 1 || p.Inventory[i].Effect == nil {
		s.BattleLog = append(s.BattleLog, "Item usage failed.")
		return
	}
	item := p.Inventory[i]
	effect := item.Effect

	if effect.Health > 0 {
		before := p.Stats.CurrentHealth
		p.Stats.CurrentHealth = min(p.Stats.MaxHealth, before+effect.Health)
		s.BattleLog = append(s.BattleLog, fmt.Sprintf("You used %s and recovered %d HP!", item.Name, p.Stats.CurrentHealth-before))
	}
	if effect.Mana > 0 {
		before := p.Stats.CurrentMana
		p.Stats.CurrentMana = min(p.Stats.MaxMana, before+effect.Mana)
		s.BattleLog = append(s.BattleLog, fmt.Sprintf("You used %s and recovered %d MP!", item.Name, p.Stats.CurrentMana-before))
	}
	if effect.StatusCure != models.CureNone {
		cure(&s.PlayerStatus, effect.StatusCure)
		s.BattleLog = append(s.BattleLog, fmt.Sprintf("You used %s and cured your status ailments!", item.Name))
	}

	if item.Quantity > 1 {
		p.Inventory[i].Quantity--
	} else {
		p.Inventory = slices.Delete(p.Inventory, i, i+1)
	}
}

func cure(st *models.PlayerStatus, c models.StatusCure) {
	if c == models.CurePoison || c == models.CureAll {
		st.Poisoned, st.PoisonTurns = false, 0
	}
	if c == models.CureSleep || c == models.CureAll {
		st.Asleep, st.SleepTurns = false, 0
	}
	if c == models.CureParalysis || c == models.CureAll {
		st.Paralyzed, st.ParalysisTurns = false, 0
	}
	if c == models.CureConfusion || c == models.CureAll {
		st.Confused, st.ConfusionTurns = false, 0
	}
}

func run(rng *random.Rand, s *models.BattleState, p models.Player) {
	if !s.CanRun {
		s.BattleLog = append(s.BattleLog, "You cannot escape from this battle!")
		return
	}
	live := s.LiveMonsters()
	total := 0
	for _, m := range live {
		total += m.Stats.Speed
	}
	avg := 0.0
	if len(live) > 0 {
		avg = float64(total) / float64(len(live))
	}
	if rng.Next() < RunChance(playerDexterity(p), avg) {
		s.Result = models.BattleEscape
		s.BattleLog = append(s.BattleLog, "You successfully escaped from battle!")
		return
	}
	s.BattleLog = append(s.BattleLog, "You failed to escape!")
}

// wound applies damage to a monster and settles victory when the last one falls
func wound(m *models.Monster, dmg int, s *models.BattleState, p models.Player, seed string) {
	m.Stats.HP = max(0, m.Stats.HP-dmg)
	if m.Alive() {
		return
	}
	s.BattleLog = append(s.BattleLog, fmt.Sprintf("%s is defeated!", m.Name))
	if len(s.LiveMonsters()) > 0 {
		return
	}
	rewards := CalculateBattleRewards(s.Monsters, p.Level, seed)
	s.Result = models.BattleVictory
	s.Rewards = &rewards
	s.BattleLog = append(s.BattleLog, "Victory! You've defeated all enemies!")
}

func defeat(s *models.BattleState, p *models.Player) {
	p.Stats.CurrentHealth = 0
	s.Result = models.BattleDefeat
	s.PlayerTurn = false
	s.BattleLog = append(s.BattleLog, "You have been defeated!")
}

// refresh drops fallen monsters from the turn order and keeps the target index in range
func refresh(s *models.BattleState) {
	alive := make(map[string]bool, len(s.Monsters))
	for _, m := range s.Monsters {
		alive[m.ID] = m.Alive()
	}
	s.TurnOrder = slices.DeleteFunc(s.TurnOrder, func(e models.TurnEntry) bool {
		return e.Kind == models.CombatantMonster && !alive[e.ID]
	})

	if s.SelectedTarget == nil {
		return
	}
	if n := len(s.LiveMonsters()); *s.SelectedTarget >= n {
		if n == 0 {
			s.SelectedTarget = nil
			return
		}
		zero := 0
		s.SelectedTarget = &zero
	}
}

func chooseAbility(rng *random.Rand, m *models.Monster) models.MonsterAbility {
	if len(m.Abilities) == 1 {
		return m.Abilities[0]
	}
	var ready []models.MonsterAbility
	for _, a := range m.Abilities {
		chance := a.UseChance
		if chance <= 0 {
			chance = 1
		}
		if rng.Bool(chance) {
			ready = append(ready, a)
		}
	}
	if len(ready) == 0 {
		return m.Abilities[0]
	}
	return ready[rng.IntN(0, len(ready)-1)]
}

func strike(rng *random.Rand, m *models.Monster, a models.MonsterAbility, s *models.BattleState, p *models.Player) {
	base := a.Damage
	if base <= 0 {
		base = m.Stats.Attack
	}
	if base <= 0 {
		base = 5
	}
	crit := rng.Bool(monsterCritChance)
	dmg := damage(base, crit, reduction(playerDefense(*p), defenseScale))
	p.Stats.CurrentHealth = max(0, p.Stats.CurrentHealth-dmg)
	if crit {
		s.BattleLog = append(s.BattleLog, fmt.Sprintf("Critical hit! %s uses %s for %d damage!", m.Name, a.Name, dmg))
	} else {
		s.BattleLog = append(s.BattleLog, fmt.Sprintf("%s uses %s for %d damage!", m.Name, a.Name, dmg))
	}
}

func inflict(rng *random.Rand, effect *models.StatusEffect, s *models.BattleState) {
	if effect == nil || !rng.Bool(effect.Chance) {
		return
	}
	turns := max(1, effect.Duration)
	st := &s.PlayerStatus
	switch effect.Type {
	case models.StatusPoison:
		st.Poisoned, st.PoisonTurns = true, turns
		s.BattleLog = append(s.BattleLog, "You have been poisoned!")
	case models.StatusSleep:
		st.Asleep, st.SleepTurns = true, turns
		s.BattleLog = append(s.BattleLog, "You fall asleep!")
	case models.StatusParalysis:
		st.Paralyzed, st.ParalysisTurns = true, turns
		s.BattleLog = append(s.BattleLog, "You are paralyzed!")
	case models.StatusConfusion:
		st.Confused, st.ConfusionTurns = true, turns
		s.BattleLog = append(s.BattleLog, "You are confused!")
	}
}

func reduction(stat int, scale float64) float64 {
	return float64(stat) / (float64(stat) + scale)
}

// damage is never below 1
func damage(base int, crit bool, reduce float64) int {
	mult := 1.0
	if crit {
		mult = critMultiplier
	}
	return max(1, int(math.Floor(float64(base)*mult*(1-reduce))))
}

func playerSpeed(p models.Player) int {
	return playerDexterity(p)
}

func playerDexterity(p models.Player) int {
	if p.Stats.Dexterity > 0 {
		return p.Stats.Dexterity
	}
	return defaultPlayerSpeed
}

func playerAttack(p models.Player) int {
	if p.Stats.Attack > 0 {
		return p.Stats.Attack
	}
	return 5
}

func playerEnergy(p models.Player) int {
	if p.Stats.Energy > 0 {
		return p.Stats.Energy
	}
	return 10
}

func playerDefense(p models.Player) int {
	if p.Stats.Defense > 0 {
		return p.Stats.Defense
	}
	return 5
}

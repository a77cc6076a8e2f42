package combat

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"testing"

	"dconn.dev/realmgen/internal/models"
)

func testPlayer() models.Player {
	return models.Player{
		Name:  "Tester",
		Level: 4,
		Stats: models.PlayerStats{
			Dexterity:     10,
			Energy:        10,
			MaxHealth:     100,
			CurrentHealth: 100,
			MaxMana:       50,
			CurrentMana:   50,
			Attack:        8,
			Defense:       5,
		},
	}
}

func weakMonster(id string, speed int) models.Monster {
	return models.Monster{
		ID:    id,
		Name:  "Rat " + id,
		Level: 1,
		Stats: models.MonsterStats{HP: 1, MaxHP: 1, Attack: 1, Defense: 1, Speed: speed},
	}
}

func intPtr(i int) *int { return &i }

func countLines(log []string, prefix string) int {
	n := 0
	for _, line := range log {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func TestInitializeBattleDefaults(t *testing.T) {
	state := InitializeBattle([]models.Monster{{Name: "Blob"}}, testPlayer(), true, false)

	m := state.Monsters[0]
	want := models.MonsterStats{HP: 10, MaxHP: 10, Attack: 5, Defense: 3, Speed: 5}
	if m.Stats != want {
		t.Errorf("stats = %+v, want %+v", m.Stats, want)
	}
	if len(m.Abilities) != 1 || m.Abilities[0].Name != "Attack" || m.Abilities[0].Damage != 5 || m.Abilities[0].UseChance != 1 {
		t.Errorf("abilities = %+v", m.Abilities)
	}
	if !state.PlayerTurn || state.CurrentRound != 1 || state.Result != models.BattleOngoing {
		t.Errorf("state = turn %v round %d result %s", state.PlayerTurn, state.CurrentRound, state.Result)
	}
	if state.BattleLog[0] != "Battle started! You have the initiative!" {
		t.Errorf("opening line %q", state.BattleLog[0])
	}

	ambushed := InitializeBattle([]models.Monster{{Name: "Blob"}}, testPlayer(), true, true)
	if ambushed.PlayerTurn || ambushed.BattleLog[0] != "You've been ambushed! The enemies attack first!" {
		t.Errorf("ambush: turn %v log %q", ambushed.PlayerTurn, ambushed.BattleLog[0])
	}
}

func TestInitializeBattleKeepsGivenHP(t *testing.T) {
	tests := []struct {
		name      string
		hp        int
		wantHP    int
		wantMaxHP int
	}{
		{"above default", 30, 30, 30},
		{"below default", 4, 4, 10},
		{"missing", 0, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monster := models.Monster{Name: "Brute", Stats: models.MonsterStats{HP: tt.hp}}
			m := InitializeBattle([]models.Monster{monster}, testPlayer(), true, false).Monsters[0]
			if m.Stats.HP != tt.wantHP || m.Stats.MaxHP != tt.wantMaxHP {
				t.Errorf("HP %d/%d, want %d/%d", m.Stats.HP, m.Stats.MaxHP, tt.wantHP, tt.wantMaxHP)
			}
		})
	}
}

func TestCalculateTurnOrder(t *testing.T) {
	monsters := []models.Monster{weakMonster("a", 12), weakMonster("b", 10), weakMonster("c", 3)}
	order := CalculateTurnOrder(testPlayer(), monsters)

	var ids []string
	for _, e := range order {
		ids = append(ids, e.ID)
	}
	// ties keep the player ahead of monsters
	if want := []string{"a", "player", "b", "c"}; !slices.Equal(ids, want) {
		t.Errorf("turn order = %v, want %v", ids, want)
	}
}

func TestRunChance(t *testing.T) {
	tests := []struct {
		dex  int
		avg  float64
		want float64
	}{
		{20, 10, 0.9},
		{10, 10, 0.5},
		{0, 40, 0.1},
	}
	for _, tt := range tests {
		if got := RunChance(tt.dex, tt.avg); got != tt.want {
			t.Errorf("RunChance(%d, %.0f) = %v, want %v", tt.dex, tt.avg, got, tt.want)
		}
	}
}

func TestRunEscapes(t *testing.T) {
	player := testPlayer()
	player.Stats.Dexterity = 20
	monster := weakMonster("m", 10)
	monster.Stats.HP, monster.Stats.MaxHP = 50, 50

	escaped := 0
	for i := range 40 {
		state := InitializeBattle([]models.Monster{monster}, player, true, false)
		next, _ := ProcessPlayerAction(models.BattleAction{Type: models.ActionRun}, state, player, fmt.Sprintf("run-%d", i))
		switch next.Result {
		case models.BattleEscape:
			escaped++
			if last := next.BattleLog[len(next.BattleLog)-1]; last != "You successfully escaped from battle!" {
				t.Errorf("escape logged %q", last)
			}
		case models.BattleOngoing:
			if next.PlayerTurn {
				t.Error("failed escape kept the player's turn")
			}
		default:
			t.Fatalf("run produced %s", next.Result)
		}
	}
	if escaped == 0 {
		t.Fatal("no escape in 40 tries at 90%")
	}

	state := InitializeBattle([]models.Monster{monster}, player, false, false)
	next, _ := ProcessPlayerAction(models.BattleAction{Type: models.ActionRun}, state, player, "trapped")
	if next.Result != models.BattleOngoing || !slices.Contains(next.BattleLog, "You cannot escape from this battle!") {
		t.Errorf("inescapable battle: result %s log %v", next.Result, next.BattleLog)
	}
}

func TestVictoryRewardsOnce(t *testing.T) {
	player := testPlayer()
	state := InitializeBattle([]models.Monster{weakMonster("a", 1), weakMonster("b", 1)}, player, true, false)
	attack := models.BattleAction{Type: models.ActionAttack, Target: intPtr(0)}

	var err error
	state, player = ProcessPlayerAction(attack, state, player, "win")
	if state.Result != models.BattleOngoing || state.Rewards != nil {
		t.Fatalf("after first kill: result %s rewards %v", state.Result, state.Rewards)
	}
	if len(state.TurnOrder) != 2 {
		t.Errorf("dead monster still in turn order: %+v", state.TurnOrder)
	}
	state, player, err = ProcessMonsterAction(state, player, "win")
	if err != nil {
		t.Fatal(err)
	}
	if !state.PlayerTurn || state.CurrentRound != 2 {
		t.Fatalf("monster phase left turn %v round %d", state.PlayerTurn, state.CurrentRound)
	}

	state, player = ProcessPlayerAction(attack, state, player, "win")
	if state.Result != models.BattleVictory || state.Rewards == nil {
		t.Fatalf("result %s rewards %v", state.Result, state.Rewards)
	}
	if state.Rewards.Experience <= 0 || state.Rewards.Gold <= 0 {
		t.Errorf("rewards = %+v", *state.Rewards)
	}

	after, _ := ProcessPlayerAction(attack, state, player, "win")
	after, _, _ = ProcessMonsterAction(after, player, "win")
	if !reflect.DeepEqual(after, state) {
		t.Error("finished battle changed")
	}
	if n := countLines(after.BattleLog, "Victory!"); n != 1 {
		t.Errorf("victory logged %d times", n)
	}
}

func TestTerminalBattleIsUnchanged(t *testing.T) {
	player := testPlayer()
	for _, result := range []models.BattleResult{models.BattleVictory, models.BattleDefeat, models.BattleEscape} {
		state := InitializeBattle([]models.Monster{weakMonster("a", 5)}, player, true, false)
		state.Result = result

		for _, action := range []models.BattleAction{
			{Type: models.ActionAttack, Target: intPtr(0)},
			{Type: models.ActionSpell, Spell: "fireball", Target: intPtr(0)},
			{Type: models.ActionRun},
		} {
			next, p := ProcessPlayerAction(action, state, player, "done")
			if !reflect.DeepEqual(next, state) || !reflect.DeepEqual(p, player) {
				t.Errorf("%s: %s changed a finished battle", result, action.Type)
			}
		}
		next, _, err := ProcessMonsterAction(state, player, "done")
		if err != nil || !reflect.DeepEqual(next, state) {
			t.Errorf("%s: monster phase changed a finished battle (err %v)", result, err)
		}
	}
}

func TestNotYourTurn(t *testing.T) {
	player := testPlayer()
	state := InitializeBattle([]models.Monster{weakMonster("a", 5)}, player, true, true)
	next, _ := ProcessPlayerAction(models.BattleAction{Type: models.ActionAttack}, state, player, "early")
	if next.Monsters[0].Stats.HP != 1 || next.BattleLog[len(next.BattleLog)-1] != "It's not your turn!" {
		t.Errorf("out-of-turn attack: hp %d log %v", next.Monsters[0].Stats.HP, next.BattleLog)
	}
}

func TestDamageFloor(t *testing.T) {
	if got := damage(1, false, reduction(100000, defenseScale)); got != 1 {
		t.Errorf("damage against huge defense = %d, want 1", got)
	}
	if got := damage(20, true, 0); got != 30 {
		t.Errorf("crit damage = %d, want 30", got)
	}

	player := testPlayer()
	wall := models.Monster{ID: "wall", Name: "Wall", Stats: models.MonsterStats{HP: 100, MaxHP: 100, Defense: 100000, MagicResist: 100000, Speed: 1}}
	state := InitializeBattle([]models.Monster{wall}, player, true, false)
	next, _ := ProcessPlayerAction(models.BattleAction{Type: models.ActionAttack, Target: intPtr(0)}, state, player, "floor")
	if hp := next.Monsters[0].Stats.HP; hp != 99 {
		t.Errorf("wall hp %d after attack, want 99", hp)
	}
}

func TestInvalidInputIsLogged(t *testing.T) {
	player := testPlayer()
	state := InitializeBattle([]models.Monster{weakMonster("a", 5)}, player, true, false)

	tests := []struct {
		action models.BattleAction
		want   string
	}{
		{models.BattleAction{Type: models.ActionAttack, Target: intPtr(3)}, "Invalid target!"},
		{models.BattleAction{Type: models.ActionSpell, Spell: "meteor"}, "You don't know that spell!"},
		{models.BattleAction{Type: models.ActionItem, ItemID: "missing"}, "Item usage failed."},
		{models.BattleAction{Type: "dance"}, "Invalid action."},
	}
	for _, tt := range tests {
		next, p := ProcessPlayerAction(tt.action, state, player, "bad")
		if last := next.BattleLog[len(next.BattleLog)-1]; last != tt.want {
			t.Errorf("%+v logged %q, want %q", tt.action, last, tt.want)
		}
		if next.Monsters[0].Stats.HP != 1 || !reflect.DeepEqual(p, player) {
			t.Errorf("%+v had side effects", tt.action)
		}
	}
}

func TestSpells(t *testing.T) {
	player := testPlayer()
	player.Stats.CurrentHealth = 50
	monster := weakMonster("a", 5)
	monster.Stats.HP, monster.Stats.MaxHP = 100, 100
	state := InitializeBattle([]models.Monster{monster}, player, true, false)

	next, p := ProcessPlayerAction(models.BattleAction{Type: models.ActionSpell, Spell: "heal"}, state, player, "spell")
	if p.Stats.CurrentHealth != 70 || p.Stats.CurrentMana != 42 {
		t.Errorf("heal: hp %d mana %d", p.Stats.CurrentHealth, p.Stats.CurrentMana)
	}
	if next.PlayerTurn {
		t.Error("heal did not end the turn")
	}

	next, p = ProcessPlayerAction(models.BattleAction{Type: models.ActionSpell, Spell: "lightning", Target: intPtr(0)}, state, player, "spell")
	if p.Stats.CurrentMana != 40 || next.Monsters[0].Stats.HP >= 100 {
		t.Errorf("lightning: mana %d monster hp %d", p.Stats.CurrentMana, next.Monsters[0].Stats.HP)
	}

	player.Stats.CurrentMana = 4
	next, p = ProcessPlayerAction(models.BattleAction{Type: models.ActionSpell, Spell: "fireball", Target: intPtr(0)}, state, player, "spell")
	if last := next.BattleLog[len(next.BattleLog)-1]; last != "Not enough mana to cast Fireball!" || p.Stats.CurrentMana != 4 {
		t.Errorf("fireball without mana: log %q mana %d", last, p.Stats.CurrentMana)
	}
}

func TestFullHealItem(t *testing.T) {
	player := testPlayer()
	player.Stats.CurrentHealth = 10
	player.Inventory = []models.Item{
		{ID: "elixir", Name: "Grand Elixir", Type: models.ItemConsumable, Quantity: 1, Effect: &models.ConsumableEffect{Health: 9999}},
		{ID: "antidote", Name: "Antidote", Type: models.ItemConsumable, Quantity: 2, Effect: &models.ConsumableEffect{StatusCure: models.CurePoison}},
	}
	state := InitializeBattle([]models.Monster{weakMonster("a", 5)}, player, true, false)

	_, p := ProcessPlayerAction(models.BattleAction{Type: models.ActionItem, ItemID: "elixir"}, state, player, "potion")
	if p.Stats.CurrentHealth != p.Stats.MaxHealth {
		t.Errorf("hp %d, want %d", p.Stats.CurrentHealth, p.Stats.MaxHealth)
	}
	if len(p.Inventory) != 1 || p.Inventory[0].ID != "antidote" {
		t.Errorf("used elixir not removed: %+v", p.Inventory)
	}

	state.PlayerStatus = models.PlayerStatus{Poisoned: true, PoisonTurns: 3}
	next, p := ProcessPlayerAction(models.BattleAction{Type: models.ActionItem, ItemID: "antidote"}, state, player, "cure")
	if next.PlayerStatus.Poisoned || p.Inventory[1].Quantity != 1 {
		t.Errorf("antidote: status %+v quantity %d", next.PlayerStatus, p.Inventory[1].Quantity)
	}
	if player.Inventory[1].Quantity != 2 {
		t.Error("input player was mutated")
	}
}

func TestProcessMonsterActionEmptyRoster(t *testing.T) {
	state := InitializeBattle(nil, testPlayer(), true, true)
	if _, _, err := ProcessMonsterAction(state, testPlayer(), "empty"); !errors.Is(err, ErrNoMonsters) {
		t.Fatalf("got %v, want ErrNoMonsters", err)
	}
}

func TestMonsterPhaseDefeatsPlayer(t *testing.T) {
	player := testPlayer()
	player.Stats.CurrentHealth = 1
	brutes := []models.Monster{
		{ID: "a", Name: "Ogre", Stats: models.MonsterStats{HP: 50, MaxHP: 50, Attack: 40, Speed: 9}},
		{ID: "b", Name: "Troll", Stats: models.MonsterStats{HP: 50, MaxHP: 50, Attack: 40, Speed: 8}},
	}
	state := InitializeBattle(brutes, player, true, true)

	next, p, err := ProcessMonsterAction(state, player, "crush")
	if err != nil {
		t.Fatal(err)
	}
	if next.Result != models.BattleDefeat || p.Stats.CurrentHealth != 0 {
		t.Fatalf("result %s hp %d", next.Result, p.Stats.CurrentHealth)
	}
	if countLines(next.BattleLog, "Troll") != 0 {
		t.Error("second monster acted after the player fell")
	}
}

func TestStatusEffects(t *testing.T) {
	player := testPlayer()
	healer := models.Monster{
		ID: "h", Name: "Shaman",
		Stats:     models.MonsterStats{HP: 20, MaxHP: 20, Attack: 3, Speed: 1},
		Abilities: []models.MonsterAbility{{Name: "Mend", Kind: models.AbilityHeal, Heal: 4, UseChance: 1}},
	}

	t.Run("sleep skips the turn", func(t *testing.T) {
		state := InitializeBattle([]models.Monster{healer}, player, true, false)
		state.PlayerStatus = models.PlayerStatus{Asleep: true, SleepTurns: 1}
		next, _ := ProcessPlayerAction(models.BattleAction{Type: models.ActionAttack, Target: intPtr(0)}, state, player, "nap")
		if next.PlayerTurn || next.Monsters[0].Stats.HP != 20 || next.PlayerStatus.Asleep {
			t.Errorf("turn %v hp %d status %+v", next.PlayerTurn, next.Monsters[0].Stats.HP, next.PlayerStatus)
		}
	})

	t.Run("poison ticks after the monsters", func(t *testing.T) {
		state := InitializeBattle([]models.Monster{healer}, player, true, true)
		state.PlayerStatus = models.PlayerStatus{Poisoned: true, PoisonTurns: 2}
		next, p, err := ProcessMonsterAction(state, player, "venom")
		if err != nil {
			t.Fatal(err)
		}
		if p.Stats.CurrentHealth != 95 {
			t.Errorf("hp %d after poison, want 95", p.Stats.CurrentHealth)
		}
		if !next.PlayerStatus.Poisoned || next.PlayerStatus.PoisonTurns != 1 {
			t.Errorf("status %+v", next.PlayerStatus)
		}
		if !next.PlayerTurn || next.CurrentRound != 2 {
			t.Errorf("turn %v round %d", next.PlayerTurn, next.CurrentRound)
		}
	})

	t.Run("heal is capped", func(t *testing.T) {
		state := InitializeBattle([]models.Monster{healer}, player, true, true)
		state.Monsters[0].Stats.HP = 18
		next, _, _ := ProcessMonsterAction(state, player, "mend")
		if hp := next.Monsters[0].Stats.HP; hp != 20 {
			t.Errorf("healer hp %d, want 20", hp)
		}
	})

	t.Run("certain status lands", func(t *testing.T) {
		spider := models.Monster{
			ID: "s", Name: "Spider",
			Stats: models.MonsterStats{HP: 20, MaxHP: 20, Attack: 3, Speed: 1},
			Abilities: []models.MonsterAbility{{
				Name: "Web", Kind: models.AbilityStatus, UseChance: 1,
				Status: &models.StatusEffect{Type: models.StatusSleep, Chance: 1, Duration: 2},
			}},
		}
		state := InitializeBattle([]models.Monster{spider}, player, true, true)
		next, p, _ := ProcessMonsterAction(state, player, "web")
		if !next.PlayerStatus.Asleep || next.PlayerStatus.SleepTurns != 2 {
			t.Errorf("status %+v", next.PlayerStatus)
		}
		if p.Stats.CurrentHealth != 100 {
			t.Errorf("damage-free status ability dealt damage: hp %d", p.Stats.CurrentHealth)
		}
	})
}

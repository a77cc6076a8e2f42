package models

import "time"

// ServiceType identifies what a building service does
type ServiceType string

const (
	ServiceHeal     ServiceType = "heal"
	ServiceRecruit  ServiceType = "recruit"
	ServiceQuest    ServiceType = "quest"
	ServiceBuy      ServiceType = "buy"
	ServiceSell     ServiceType = "sell"
	ServiceUpgrade  ServiceType = "upgrade"
	ServiceLearn    ServiceType = "learn"
	ServiceBuff     ServiceType = "buff"
	ServiceCure     ServiceType = "cure"
	ServiceCraft    ServiceType = "craft"
	ServiceTravel   ServiceType = "travel"
	ServiceTrain    ServiceType = "train"
	ServiceStorage  ServiceType = "storage"
	ServiceExchange ServiceType = "exchange"
)

// Service is something a building offers
type Service struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Type        ServiceType `json:"type" yaml:"type"`
	Cost        int         `json:"cost,omitempty" yaml:"cost,omitempty"`
	Level       int         `json:"level,omitempty" yaml:"level,omitempty"`
}

// Building is a named structure inside a town
type Building struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Type        string    `json:"type" yaml:"type"`
	Description string    `json:"description" yaml:"description"`
	Services    []Service `json:"services" yaml:"services"`
}

// Quest is a hunting contract posted in a town
type Quest struct {
	ID             string `json:"id" yaml:"id"`
	Title          string `json:"title" yaml:"title"`
	Description    string `json:"description" yaml:"description"`
	Type           string `json:"type" yaml:"type"`
	TargetType     string `json:"target_type" yaml:"target_type"`
	TargetQuantity int    `json:"target_quantity" yaml:"target_quantity"`
	Difficulty     int    `json:"difficulty" yaml:"difficulty"`
	RewardXP       int    `json:"reward_xp" yaml:"reward_xp"`
	RewardCurrency int    `json:"reward_currency" yaml:"reward_currency"`
	RewardItems    []Item `json:"reward_items,omitempty" yaml:"reward_items,omitempty"`
	Giver          string `json:"giver" yaml:"giver"`
	Location       string `json:"location" yaml:"location"`
	Available      bool   `json:"available" yaml:"available"`
	Completed      bool   `json:"completed" yaml:"completed"`
}

// Town is a generated settlement
type Town struct {
	ID              string     `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	Description     string     `json:"description" yaml:"description"`
	Region          string     `json:"region" yaml:"region"`
	WorldID         string     `json:"world_id" yaml:"world_id"`
	Position        Position   `json:"position" yaml:"position"`
	Population      int        `json:"population" yaml:"population"`
	Depth           int        `json:"depth" yaml:"depth"`
	ParentID        string     `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Buildings       []Building `json:"buildings" yaml:"buildings"`
	Quests          []Quest    `json:"quests" yaml:"quests"`
	InfluenceRadius int        `json:"influence_radius" yaml:"influence_radius"`
	LastVisited     *time.Time `json:"last_visited,omitempty" yaml:"last_visited,omitempty"`
}

// Visited reports whether the player has been to this town
func (t Town) Visited() bool {
	return t.LastVisited != nil
}

// Recruit is a companion offered by a tavern
type Recruit struct {
	Name  string `json:"name"`
	Class string `json:"class"`
	Level int    `json:"level"`
	Cost  int    `json:"cost"`
}

// TownVisit is what the player sees on entering a town
type TownVisit struct {
	Town     Town      `json:"town"`
	Shop     []Item    `json:"shop"`
	Recruits []Recruit `json:"recruits"`
}

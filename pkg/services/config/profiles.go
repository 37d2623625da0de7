// Package config loads the company profile registry and the application
// settings.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Profile is one company the tool processes CFDIs for.
type Profile struct {
	Name string
	RFC  string
}

// Registry resolves company profiles from an ini file, one section per
// company:
//
//	[mi-empresa]
//	rfc = AAA010101AAA
type Registry interface {
	Profiles() []Profile
	Get(name string) (Profile, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load profile registry: %w", err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) Profiles() []Profile {
	var profiles []Profile
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		profiles = append(profiles, Profile{
			Name: section.Name(),
			RFC:  section.Key("rfc").String(),
		})
	}
	return profiles
}

func (r *iniRegistry) Get(name string) (Profile, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil {
		return Profile{}, fmt.Errorf("profile %s not found", name)
	}
	rfc := section.Key("rfc").String()
	if rfc == "" {
		return Profile{}, fmt.Errorf("profile %s has no rfc", name)
	}
	return Profile{Name: name, RFC: rfc}, nil
}

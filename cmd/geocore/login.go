// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package main

import (
	"errors"

	"github.com/spf13/cobra"
)

type sessionView struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
	Cached    bool   `json:"cached"`
}

func loginCmd(a *app) *cobra.Command {
	var userID, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and cache the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(); err != nil {
				return err
			}
			if userID == "" {
				userID = a.cfg.Geocore.UserID
			}
			if password == "" {
				password = a.cfg.Geocore.Password
			}
			if userID == "" || password == "" {
				return errors.New("login needs --user and --password, or GEOCORE_USER_ID and GEOCORE_PASSWORD")
			}
			if err := a.login(cmd.Context(), userID, password); err != nil {
				return err
			}
			return a.render(sessionView{ProjectID: a.cfg.Geocore.ProjectID, UserID: userID, Cached: a.cache != nil})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User id (default: geocore.user_id)")
	cmd.Flags().StringVar(&password, "password", "", "Password (default: geocore.password)")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the cached access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(); err != nil {
				return err
			}
			if userID == "" {
				userID = a.client.UserID()
			}
			if a.cache != nil {
				if err := a.cache.Delete(a.cfg.Geocore.ProjectID, userID); err != nil {
					return err
				}
			}
			a.client.ClearToken()
			return a.render(sessionView{ProjectID: a.cfg.Geocore.ProjectID, UserID: userID})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User id (default: the current user)")
	return cmd
}

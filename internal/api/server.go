// Package api exposes the IPAM operations over a JSON REST interface
// using the Gin web framework. All resource routes sit behind JWT
// bearer authentication; only login and token refresh are open.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maclarensg/ipam2/internal/auth"
	"github.com/maclarensg/ipam2/internal/database"
	"github.com/maclarensg/ipam2/internal/ipam"
	"github.com/maclarensg/ipam2/internal/network"
)

// Server holds the handler dependencies and builds the router.
type Server struct {
	db      *database.Database
	svc     *ipam.Service
	manager *auth.Manager
}

// ErrorResponse is the JSON body returned on request failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewServer creates an API server over an open database.
func NewServer(db *database.Database, jwtSecret string) *Server {
	return &Server{
		db:      db,
		svc:     ipam.New(db),
		manager: auth.NewManager(jwtSecret),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	middleware := auth.NewMiddleware(s.manager)

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/login", s.Login)
		apiGroup.POST("/refresh", s.RefreshToken)

		protected := apiGroup.Group("")
		protected.Use(middleware.RequireAuth())
		{
			protected.GET("/addresspools", s.ListAddressPools)
			protected.POST("/addresspools", s.CreateAddressPool)
			protected.DELETE("/addresspools/:name", s.DeleteAddressPool)

			protected.GET("/vpcs", s.ListVPCs)
			protected.POST("/vpcs", s.CreateVPC)
			protected.DELETE("/vpcs/:name", s.DeleteVPC)

			protected.GET("/pools", s.ListPools)
			protected.POST("/pools", s.CreatePool)
			protected.DELETE("/vpcs/:name/pools/:pool", s.DeletePool)

			protected.GET("/subnets", s.ListSubnets)
			protected.POST("/subnets", s.CreateSubnet)
			protected.DELETE("/vpcs/:name/subnets/:subnet", s.DeleteSubnet)

			protected.GET("/report", s.GetReport)
		}
	}

	return router
}

// writeError maps domain failures to HTTP status codes: bad input is
// 400, missing resources 404, conflicts with existing state 409.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ipam.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, ipam.ErrDuplicateName),
		errors.Is(err, ipam.ErrNotEmpty),
		errors.Is(err, network.ErrAddressSpaceExhausted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, ipam.ErrInvalidCIDR),
		errors.Is(err, network.ErrInvalidPrefix),
		errors.Is(err, network.ErrPrefixNotMoreSpecific),
		errors.Is(err, network.ErrInvalidHierarchyLevel),
		errors.Is(err, network.ErrFamilyMismatch):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CreateAddressPoolRequest struct {
	Name string `json:"name" binding:"required"`
	CIDR string `json:"cidr" binding:"required"`
}

type CreateVPCRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreatePoolRequest struct {
	Name         string `json:"name" binding:"required"`
	AddressPool  string `json:"address_pool" binding:"required"`
	VPC          string `json:"vpc" binding:"required"`
	PrefixLength int    `json:"prefix_length" binding:"required,min=1,max=128"`
}

type CreateSubnetRequest struct {
	Name         string `json:"name" binding:"required"`
	Pool         string `json:"pool" binding:"required"`
	VPC          string `json:"vpc" binding:"required"`
	PrefixLength int    `json:"prefix_length" binding:"required,min=1,max=128"`
}

// ListAddressPools returns all address pools.
func (s *Server) ListAddressPools(c *gin.Context) {
	pools, err := s.svc.ListAddressPools()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pools)
}

// CreateAddressPool registers a new top-level supernet.
func (s *Server) CreateAddressPool(c *gin.Context) {
	var req CreateAddressPoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	pool, err := s.svc.CreateAddressPool(req.Name, req.CIDR)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pool)
}

// DeleteAddressPool removes an empty address pool.
func (s *Server) DeleteAddressPool(c *gin.Context) {
	if err := s.svc.DeleteAddressPool(c.Param("name")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListVPCs returns all VPCs.
func (s *Server) ListVPCs(c *gin.Context) {
	vpcs, err := s.svc.ListVPCs()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, vpcs)
}

// CreateVPC registers a new VPC.
func (s *Server) CreateVPC(c *gin.Context) {
	var req CreateVPCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	vpc, err := s.svc.CreateVPC(req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vpc)
}

// DeleteVPC removes a VPC and everything under it.
func (s *Server) DeleteVPC(c *gin.Context) {
	if err := s.svc.DeleteVPC(c.Param("name")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPools returns all pools.
func (s *Server) ListPools(c *gin.Context) {
	pools, err := s.svc.ListPools()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pools)
}

// CreatePool allocates a new pool range out of an address pool.
func (s *Server) CreatePool(c *gin.Context) {
	var req CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	pool, err := s.svc.CreatePool(req.Name, req.AddressPool, req.VPC, req.PrefixLength)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pool)
}

// DeletePool removes a pool and its subnets from a VPC.
func (s *Server) DeletePool(c *gin.Context) {
	if err := s.svc.DeletePool(c.Param("pool"), c.Param("name")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubnets returns all subnets.
func (s *Server) ListSubnets(c *gin.Context) {
	subnets, err := s.svc.ListSubnets()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subnets)
}

// CreateSubnet allocates a new subnet range out of a pool.
func (s *Server) CreateSubnet(c *gin.Context) {
	var req CreateSubnetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	subnet, err := s.svc.CreateSubnet(req.Name, req.Pool, req.VPC, req.PrefixLength)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subnet)
}

// DeleteSubnet removes a subnet from a VPC.
func (s *Server) DeleteSubnet(c *gin.Context) {
	if err := s.svc.DeleteSubnet(c.Param("subnet"), c.Param("name")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetReport returns the full utilization tree.
func (s *Server) GetReport(c *gin.Context) {
	report, err := s.svc.Report()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

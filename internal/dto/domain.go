package dto

type AddDomainRequest struct {
	Hostname string `json:"hostname" binding:"required,max=253,fqdn_host" msg:"error.hostname_invalid"`
}

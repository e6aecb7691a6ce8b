package gwcdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// DomainProps serves the API under RecordName in HostedZone, e.g. "api" in
// "example.com" for "api.example.com".
//
// The certificate uses DNS validation, so the hosted zone must be delegated
// and operational before the stack deploys.
type DomainProps struct {
	// HostedZone is the Route53 zone holding the record. Required.
	HostedZone awsroute53.IHostedZone
	// RecordName is the subdomain of the API. Required.
	RecordName string
}

// DomainName returns the fully qualified domain name.
func (p DomainProps) DomainName() string {
	return p.RecordName + "." + *p.HostedZone.ZoneName()
}

func newDomain(scope constructs.Construct, api awsapigateway.RestApi, props DomainProps) {
	scope = constructs.NewConstruct(scope, jsii.String("Domain"))
	name := jsii.String(props.DomainName())

	certificate := awscertificatemanager.NewCertificate(scope, jsii.String("Certificate"),
		&awscertificatemanager.CertificateProps{
			DomainName: name,
			Validation: awscertificatemanager.CertificateValidation_FromDns(props.HostedZone),
		})

	api.AddDomainName(jsii.String("DomainName"), &awsapigateway.DomainNameOptions{
		DomainName:   name,
		Certificate:  certificate,
		EndpointType: awsapigateway.EndpointType_REGIONAL,
	})

	awsroute53.NewARecord(scope, jsii.String("Alias"), &awsroute53.ARecordProps{
		Zone:       props.HostedZone,
		RecordName: jsii.String(props.RecordName),
		Target:     awsroute53.RecordTarget_FromAlias(awsroute53targets.NewApiGateway(api)),
	})

	awscdk.NewCfnOutput(scope, jsii.String("DomainUrl"), &awscdk.CfnOutputProps{
		Value: jsii.String("https://" + *name + "/"),
		Key:   jsii.String("DomainUrl"),
	})
}

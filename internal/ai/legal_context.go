package ai

// indianaLegalContext summarizes key Indiana family law principles. It is
// appended to the report-generation prompt so the model can flag potentially
// relevant legal concepts. This is reference material, not legal advice.
const indianaLegalContext = `
- Indiana Parenting Time Guidelines: These are based on the premise that it is usually in a child's best interest to have frequent, meaningful, and continuing contact with each parent.
  - § I(C)(3) Communication: Parents should not use the child as a messenger and should communicate respectfully. Scheduled parenting time should not be used to discuss conflicts.
  - § II(D) Transportation: Details responsibilities for transporting the child for parenting time, often involving meeting halfway or one parent handling all transportation.
  - § III(F) Relocation: A parent intending to move must file a notice of intent to relocate with the court.

- Indiana Code 31-17-2 (Custody): The court determines custody in accordance with the best interests of the child. Factors include the child's age, the parents' wishes, the child's adjustment to home/school, and the mental and physical health of all individuals involved.

- Indiana Code 31-15-2 (Dissolution): Indiana is a no-fault jurisdiction; dissolution rests on the irretrievable breakdown of the marriage. Residency requires six months in the state and three months in the filing county, and no decree may issue until sixty days after the petition is filed.

- Indiana Code 31-14 (Paternity): Paternity is established by court order or a properly executed Paternity Affidavit. Once an affidavit is executed, the mother holds primary physical custody by default until a court orders otherwise.

- Indiana Trial Rule 60(B): Allows a party to seek relief from a court order or judgment for reasons such as mistake, fraud, or newly discovered evidence.

- Key Case Law Concepts:
  - Stonger v. Sorrell: Often cited in relocation cases, emphasizing the "best interests of the child" standard when a parent wishes to move a significant distance.
  - Glover v. Torrence: Pertains to custody modification, requiring a showing of a substantial and continuing change of circumstances.
`
